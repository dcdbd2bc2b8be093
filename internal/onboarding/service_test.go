package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sellerbridge/sellerbridge/internal/identity"
	"github.com/sellerbridge/sellerbridge/internal/logging"
)

func newTestService(t *testing.T, repo identity.Repository, platform Platform) *Service {
	t.Helper()
	svc, err := NewService(repo, platform, nil, logging.Discard(), Options{
		Country:    "US",
		RefreshURL: "https://app.example/seller-dashboard?refresh=true",
		ReturnURL:  "https://app.example/seller-dashboard?success=true",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo identity.Repository, user identity.User) {
	t.Helper()
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestEnsureOnboardingLinkFirstCallProvisions(t *testing.T) {
	ctx := context.Background()
	repo := identity.NewMemoryRepository()
	platform := NewStaticPlatform()
	seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com", Name: "Alice"})

	svc := newTestService(t, repo, platform)

	link, err := svc.EnsureOnboardingLink(ctx, "uid-1")
	if err != nil {
		t.Fatalf("ensure link: %v", err)
	}

	user, err := repo.FindByID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.PaymentAccountID == "" {
		t.Fatal("account id was not persisted")
	}
	if !strings.Contains(link, user.PaymentAccountID) {
		t.Fatalf("link %q not scoped to account %s", link, user.PaymentAccountID)
	}
	if platform.CreateCalls != 1 || platform.LinkCalls != 1 {
		t.Fatalf("expected 1 create and 1 link call, got %d and %d", platform.CreateCalls, platform.LinkCalls)
	}
}

func TestEnsureOnboardingLinkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := identity.NewMemoryRepository()
	platform := NewStaticPlatform()
	seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com"})

	svc := newTestService(t, repo, platform)

	if _, err := svc.EnsureOnboardingLink(ctx, "uid-1"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	link, err := svc.EnsureOnboardingLink(ctx, "uid-1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if link == "" {
		t.Fatal("second call must still return a link")
	}
	if platform.CreateCalls != 1 {
		t.Fatalf("second call must not create accounts, got %d creates", platform.CreateCalls)
	}
	if platform.LinkCalls != 2 {
		t.Fatalf("expected a fresh link per call, got %d link calls", platform.LinkCalls)
	}
}

func TestEnsureOnboardingLinkUnknownUser(t *testing.T) {
	svc := newTestService(t, identity.NewMemoryRepository(), NewStaticPlatform())

	_, err := svc.EnsureOnboardingLink(context.Background(), "ghost")
	if !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureOnboardingLinkCreateFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	repo := identity.NewMemoryRepository()
	platform := NewStaticPlatform()
	platform.FailCreate = true
	seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com"})

	svc := newTestService(t, repo, platform)

	_, err := svc.EnsureOnboardingLink(ctx, "uid-1")
	if !errors.Is(err, ErrProvisioningFailed) {
		t.Fatalf("expected ErrProvisioningFailed, got %v", err)
	}

	user, err := repo.FindByID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.PaymentAccountID != "" {
		t.Fatalf("failed creation must not persist an id, got %s", user.PaymentAccountID)
	}
}

func TestEnsureOnboardingLinkLinkFailure(t *testing.T) {
	repo := identity.NewMemoryRepository()
	platform := NewStaticPlatform()
	platform.FailLink = true
	seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com"})

	svc := newTestService(t, repo, platform)

	_, err := svc.EnsureOnboardingLink(context.Background(), "uid-1")
	if !errors.Is(err, ErrProvisioningFailed) {
		t.Fatalf("expected ErrProvisioningFailed, got %v", err)
	}
}

// lostClaimRepo simulates a concurrent request winning the conditional write
// between this request's read and its claim.
type lostClaimRepo struct {
	identity.Repository
	winnerID string
	claimed  bool
}

func (r *lostClaimRepo) FindByID(ctx context.Context, id string) (identity.User, error) {
	user, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return identity.User{}, err
	}
	if r.claimed {
		user.PaymentAccountID = r.winnerID
	}
	return user, nil
}

func (r *lostClaimRepo) ClaimPaymentAccount(context.Context, string, string) error {
	r.claimed = true
	return identity.ErrAccountClaimed
}

func TestEnsureOnboardingLinkLostClaimReusesWinner(t *testing.T) {
	ctx := context.Background()
	base := identity.NewMemoryRepository()
	seedUser(t, base, identity.User{ID: "uid-1", Email: "alice@example.com"})

	repo := &lostClaimRepo{Repository: base, winnerID: "acct_winner"}
	platform := NewStaticPlatform()
	platform.Accounts["acct_winner"] = Account{ID: "acct_winner"}

	svc := newTestService(t, repo, platform)

	link, err := svc.EnsureOnboardingLink(ctx, "uid-1")
	if err != nil {
		t.Fatalf("ensure link: %v", err)
	}
	if !strings.Contains(link, "acct_winner") {
		t.Fatalf("expected link scoped to the winning account, got %q", link)
	}
}

func TestAccountStatusWithoutAccount(t *testing.T) {
	repo := identity.NewMemoryRepository()
	platform := NewStaticPlatform()
	seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com"})

	svc := newTestService(t, repo, platform)

	status, err := svc.AccountStatus(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.HasAccount {
		t.Fatal("expected no account")
	}
	if platform.GetCalls != 0 {
		t.Fatalf("expected zero platform calls, got %d", platform.GetCalls)
	}
}

func TestAccountStatusUnknownUserIsNotAnError(t *testing.T) {
	svc := newTestService(t, identity.NewMemoryRepository(), NewStaticPlatform())

	status, err := svc.AccountStatus(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.HasAccount {
		t.Fatal("expected no account")
	}
}

func TestAccountStatusDerivedVerifiedFlag(t *testing.T) {
	cases := []struct {
		details  bool
		charges  bool
		verified bool
	}{
		{false, false, false},
		{true, false, false},
		{false, true, false},
		{true, true, true},
	}

	for _, tc := range cases {
		repo := identity.NewMemoryRepository()
		platform := NewStaticPlatform()
		seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com", PaymentAccountID: "acct_1"})
		platform.Accounts["acct_1"] = Account{
			ID:               "acct_1",
			DetailsSubmitted: tc.details,
			ChargesEnabled:   tc.charges,
			PayoutsEnabled:   false,
		}

		svc := newTestService(t, repo, platform)
		status, err := svc.AccountStatus(context.Background(), "uid-1")
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if status.Verified != tc.verified {
			t.Fatalf("details=%v charges=%v: expected verified=%v, got %v", tc.details, tc.charges, tc.verified, status.Verified)
		}
		if status.ChargesEnabled != tc.charges {
			t.Fatalf("charges flag not passed through")
		}
		if status.PayoutsEnabled {
			t.Fatalf("payouts flag not passed through")
		}
	}
}

func TestAccountStatusPlatformFailure(t *testing.T) {
	repo := identity.NewMemoryRepository()
	platform := NewStaticPlatform()
	platform.FailGet = true
	seedUser(t, repo, identity.User{ID: "uid-1", Email: "alice@example.com", PaymentAccountID: "acct_1"})

	svc := newTestService(t, repo, platform)

	_, err := svc.AccountStatus(context.Background(), "uid-1")
	if !errors.Is(err, ErrRetrievalFailed) {
		t.Fatalf("expected ErrRetrievalFailed, got %v", err)
	}
}
