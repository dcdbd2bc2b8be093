package onboarding

import (
	"context"
	"fmt"
)

// Platform represents a connector to the external payment platform's account
// and onboarding subsystem.
type Platform interface {
	// CreateAccount provisions a new seller account. Not idempotent at the
	// platform level; callers own persistence of the returned id.
	CreateAccount(ctx context.Context, input NewAccount) (Account, error)
	// CreateAccountLink issues a fresh time-limited onboarding URL scoped to
	// the account.
	CreateAccountLink(ctx context.Context, accountID string, link LinkTargets) (string, error)
	// GetAccount fetches current capability flags for the account.
	GetAccount(ctx context.Context, accountID string) (Account, error)
}

// NewAccount carries the data required to provision a seller account.
type NewAccount struct {
	Country string
	Email   string
}

// LinkTargets holds the server-owned redirect destinations for an onboarding link.
type LinkTargets struct {
	RefreshURL string
	ReturnURL  string
}

// Account mirrors the platform's view of a seller account: its id plus the
// three capability flags the platform reports.
type Account struct {
	ID               string
	DetailsSubmitted bool
	ChargesEnabled   bool
	PayoutsEnabled   bool
}

// StaticPlatform simulates the payment platform in memory. Test and dev support.
type StaticPlatform struct {
	Accounts map[string]Account

	CreateCalls int
	LinkCalls   int
	GetCalls    int

	// FailCreate/FailLink/FailGet force the corresponding call to error.
	FailCreate bool
	FailLink   bool
	FailGet    bool
}

// NewStaticPlatform builds an empty in-memory platform.
func NewStaticPlatform() *StaticPlatform {
	return &StaticPlatform{Accounts: make(map[string]Account)}
}

// CreateAccount provisions a synthetic account with a deterministic id.
func (p *StaticPlatform) CreateAccount(_ context.Context, _ NewAccount) (Account, error) {
	p.CreateCalls++
	if p.FailCreate {
		return Account{}, fmt.Errorf("platform rejected account creation")
	}
	acct := Account{ID: fmt.Sprintf("acct_%d", len(p.Accounts)+1)}
	p.Accounts[acct.ID] = acct
	return acct, nil
}

// CreateAccountLink issues a synthetic onboarding URL scoped to the account id.
func (p *StaticPlatform) CreateAccountLink(_ context.Context, accountID string, link LinkTargets) (string, error) {
	p.LinkCalls++
	if p.FailLink {
		return "", fmt.Errorf("platform rejected link issuance")
	}
	if _, ok := p.Accounts[accountID]; !ok {
		return "", fmt.Errorf("unknown account %s", accountID)
	}
	return fmt.Sprintf("https://onboarding.example/%s?refresh=%s&return=%s", accountID, link.RefreshURL, link.ReturnURL), nil
}

// GetAccount returns the stored account flags.
func (p *StaticPlatform) GetAccount(_ context.Context, accountID string) (Account, error) {
	p.GetCalls++
	if p.FailGet {
		return Account{}, fmt.Errorf("platform unreachable")
	}
	acct, ok := p.Accounts[accountID]
	if !ok {
		return Account{}, fmt.Errorf("unknown account %s", accountID)
	}
	return acct, nil
}
