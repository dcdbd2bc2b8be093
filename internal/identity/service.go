package identity

import (
	"context"
	"errors"
	"time"

	"github.com/sellerbridge/sellerbridge/internal/auth"
)

// Service manages the local user record lifecycle. All mutation flows start
// from a verified identity; the service never sees raw credentials.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser returns the user matching the verified identity, creating the
// record on first login. Lookup is by email, matching the issuer's uniqueness
// guarantee; the subject id becomes the record id on creation.
func (s *Service) EnsureUser(ctx context.Context, ident auth.VerifiedIdentity) (User, error) {
	user, err := s.repo.FindByEmail(ctx, ident.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user = User{
		ID:        ident.Subject,
		Email:     ident.Email,
		Name:      ident.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Find fetches a user by issuer subject id.
func (s *Service) Find(ctx context.Context, subject string) (User, error) {
	return s.repo.FindByID(ctx, subject)
}
