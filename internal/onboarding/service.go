package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sellerbridge/sellerbridge/internal/identity"
	"github.com/sellerbridge/sellerbridge/internal/notification"
)

var (
	// ErrProvisioningFailed reports a failed account creation, id persistence
	// or link issuance.
	ErrProvisioningFailed = errors.New("payment account provisioning failed")
	// ErrRetrievalFailed reports an unreachable platform during a status read.
	ErrRetrievalFailed = errors.New("payment account retrieval failed")
)

// Options carries the server-owned onboarding parameters.
type Options struct {
	Country         string
	RefreshURL      string
	ReturnURL       string
	OutboundTimeout time.Duration
}

// Service coordinates seller payment-account provisioning against the user
// store and the external platform.
type Service struct {
	users    identity.Repository
	platform Platform
	notifier notification.Notifier
	logger   *slog.Logger
	opts     Options
}

// NewService builds an onboarding service.
func NewService(users identity.Repository, platform Platform, notifier notification.Notifier, logger *slog.Logger, opts Options) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if platform == nil {
		return nil, fmt.Errorf("payment platform is required")
	}
	if opts.RefreshURL == "" || opts.ReturnURL == "" {
		return nil, fmt.Errorf("onboarding redirect urls are required")
	}
	return &Service{users: users, platform: platform, notifier: notifier, logger: logger, opts: opts}, nil
}

// EnsureOnboardingLink makes sure the user has a payment account, creating
// one on first call, and returns a fresh onboarding link. Repeat calls reuse
// the stored account id and only issue a new link.
func (s *Service) EnsureOnboardingLink(ctx context.Context, subject string) (string, error) {
	user, err := s.lookup(ctx, subject)
	if err != nil {
		return "", err
	}

	accountID := user.PaymentAccountID
	if accountID == "" {
		accountID, err = s.provisionAccount(ctx, user)
		if err != nil {
			return "", err
		}
	}

	linkCtx, cancel := s.callCtx(ctx)
	defer cancel()
	link, err := s.platform.CreateAccountLink(linkCtx, accountID, LinkTargets{
		RefreshURL: s.opts.RefreshURL,
		ReturnURL:  s.opts.ReturnURL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}
	return link, nil
}

// AccountStatus reports the user's payment account state. A user without a
// stored account id yields a zero Status with HasAccount false and no
// platform call.
func (s *Service) AccountStatus(ctx context.Context, subject string) (Status, error) {
	user, err := s.lookup(ctx, subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Status{}, nil
		}
		return Status{}, err
	}
	if user.PaymentAccountID == "" {
		return Status{}, nil
	}

	getCtx, cancel := s.callCtx(ctx)
	defer cancel()
	acct, err := s.platform.GetAccount(getCtx, user.PaymentAccountID)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	return Status{
		HasAccount:     true,
		ID:             acct.ID,
		Verified:       acct.DetailsSubmitted && acct.ChargesEnabled,
		PayoutsEnabled: acct.PayoutsEnabled,
		ChargesEnabled: acct.ChargesEnabled,
	}, nil
}

// Status is the normalized account summary. Verified derives from the
// platform flags: details submitted AND charges enabled.
type Status struct {
	HasAccount     bool
	ID             string
	Verified       bool
	PayoutsEnabled bool
	ChargesEnabled bool
}

func (s *Service) provisionAccount(ctx context.Context, user identity.User) (string, error) {
	createCtx, cancel := s.callCtx(ctx)
	defer cancel()
	acct, err := s.platform.CreateAccount(createCtx, NewAccount{
		Country: s.opts.Country,
		Email:   user.Email,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	claimCtx, cancel := s.callCtx(ctx)
	defer cancel()
	err = s.users.ClaimPaymentAccount(claimCtx, user.ID, acct.ID)
	switch {
	case err == nil:
		if s.notifier != nil {
			_ = s.notifier.Send(ctx, notification.Message{
				Kind:        notification.KindAccountProvisioned,
				Destination: user.Email,
				Body:        fmt.Sprintf("payment account %s provisioned", acct.ID),
			})
		}
		return acct.ID, nil
	case errors.Is(err, identity.ErrAccountClaimed):
		// A concurrent request won the claim. Reuse the winner's id and
		// surface the just-created account for manual reconciliation.
		current, findErr := s.lookup(ctx, user.ID)
		if findErr != nil || current.PaymentAccountID == "" {
			return "", fmt.Errorf("%w: reread after lost claim: %v", ErrProvisioningFailed, findErr)
		}
		if s.logger != nil {
			s.logger.Warn("orphaned payment account after lost claim",
				slog.String("user_id", user.ID),
				slog.String("orphaned_account_id", acct.ID),
				slog.String("kept_account_id", current.PaymentAccountID),
			)
		}
		return current.PaymentAccountID, nil
	default:
		return "", fmt.Errorf("%w: persist account id: %v", ErrProvisioningFailed, err)
	}
}

func (s *Service) lookup(ctx context.Context, subject string) (identity.User, error) {
	findCtx, cancel := s.callCtx(ctx)
	defer cancel()
	return s.users.FindByID(findCtx, subject)
}

func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.OutboundTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.OutboundTimeout)
}
