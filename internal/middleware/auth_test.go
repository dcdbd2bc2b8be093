package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sellerbridge/sellerbridge/internal/auth"
)

func newGateApp(verifier auth.TokenVerifier) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireAuth(verifier), func(c *fiber.Ctx) error {
		ident, ok := IdentityFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "identity missing")
		}
		return c.JSON(fiber.Map{"subject": ident.Subject, "email": ident.Email})
	})
	return app
}

func TestRequireAuthMissingHeaderSkipsIssuer(t *testing.T) {
	verifier := &auth.StaticVerifier{}
	app := newGateApp(verifier)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if verifier.Calls != 0 {
		t.Fatalf("expected no issuer calls, got %d", verifier.Calls)
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	verifier := &auth.StaticVerifier{}
	app := newGateApp(verifier)

	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, header)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.StatusCode)
		}
	}
	if verifier.Calls != 0 {
		t.Fatalf("expected no issuer calls, got %d", verifier.Calls)
	}
}

func TestRequireAuthRejectedToken(t *testing.T) {
	verifier := &auth.StaticVerifier{Identities: map[string]auth.VerifiedIdentity{}}
	app := newGateApp(verifier)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer nope")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if verifier.Calls != 1 {
		t.Fatalf("expected exactly one issuer call, got %d", verifier.Calls)
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	verifier := &auth.StaticVerifier{Identities: map[string]auth.VerifiedIdentity{
		"good": {Subject: "uid-1", Email: "alice@example.com", Name: "Alice"},
	}}
	app := newGateApp(verifier)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if verifier.Calls != 1 {
		t.Fatalf("expected exactly one issuer call, got %d", verifier.Calls)
	}
}
