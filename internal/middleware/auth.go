package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sellerbridge/sellerbridge/internal/auth"
)

const identityLocalKey = "verified_identity"

// RequireAuth returns a middleware that extracts the bearer credential and
// verifies it against the identity issuer. A missing or malformed header
// fails without an issuer call; all failures map to a bare 401 so the
// response does not reveal which check rejected the request.
func RequireAuth(verifier auth.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		rawToken := strings.TrimSpace(authz[len("Bearer "):])
		if rawToken == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}

		ident, err := verifier.Verify(c.UserContext(), rawToken)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}

		c.Locals(identityLocalKey, ident)
		return c.Next()
	}
}

// IdentityFromCtx returns the verified identity attached by RequireAuth.
func IdentityFromCtx(c *fiber.Ctx) (auth.VerifiedIdentity, bool) {
	ident, ok := c.Locals(identityLocalKey).(auth.VerifiedIdentity)
	return ident, ok
}
