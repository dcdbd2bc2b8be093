package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken reports a credential the issuer rejected or that is missing
// claims required downstream.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier validates a raw bearer credential against the identity issuer.
// A single attempt per call; callers re-authenticate rather than retry.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (VerifiedIdentity, error)
}

// StaticVerifier accepts tokens from a fixed table. Test support.
type StaticVerifier struct {
	Identities map[string]VerifiedIdentity
	Calls      int
}

// Verify looks the token up in the static table.
func (v *StaticVerifier) Verify(_ context.Context, rawToken string) (VerifiedIdentity, error) {
	v.Calls++
	id, ok := v.Identities[rawToken]
	if !ok {
		return VerifiedIdentity{}, ErrInvalidToken
	}
	return id, nil
}
