package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier validates bearer tokens against an OIDC issuer's published
// signing keys.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	timeout  time.Duration
}

// NewOIDCVerifier discovers the issuer configuration and prepares a verifier
// bound to the given audience.
func NewOIDCVerifier(ctx context.Context, issuerURL, audience string, timeout time.Duration) (*OIDCVerifier, error) {
	if issuerURL == "" {
		return nil, fmt.Errorf("issuer url is required")
	}
	if audience == "" {
		return nil, fmt.Errorf("audience is required")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc issuer: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
		timeout:  timeout,
	}, nil
}

// Verify checks the token signature, expiry and audience, then extracts the
// identity claims. A token without an email claim is rejected: downstream
// record lookup keys on it.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (VerifiedIdentity, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return VerifiedIdentity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return VerifiedIdentity{}, fmt.Errorf("%w: parse claims: %v", ErrInvalidToken, err)
	}

	if idToken.Subject == "" || claims.Email == "" {
		return VerifiedIdentity{}, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}

	return VerifiedIdentity{
		Subject: idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
