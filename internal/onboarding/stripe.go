package onboarding

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripePlatform implements Platform against Stripe Connect Express accounts.
type StripePlatform struct {
	api *client.API
}

// NewStripePlatform builds a Stripe-backed platform connector.
func NewStripePlatform(secretKey string) (*StripePlatform, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripePlatform{api: api}, nil
}

// CreateAccount provisions a Connect Express account for the seller.
func (p *StripePlatform) CreateAccount(ctx context.Context, input NewAccount) (Account, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String(input.Country),
		Email:   stripe.String(input.Email),
	}
	params.Context = ctx

	acct, err := p.api.Accounts.New(params)
	if err != nil {
		return Account{}, fmt.Errorf("create stripe account: %w", err)
	}
	return fromStripeAccount(acct), nil
}

// CreateAccountLink issues an account-onboarding link for the account.
func (p *StripePlatform) CreateAccountLink(ctx context.Context, accountID string, link LinkTargets) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(link.RefreshURL),
		ReturnURL:  stripe.String(link.ReturnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	accountLink, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe account link: %w", err)
	}
	return accountLink.URL, nil
}

// GetAccount retrieves the account's current capability flags.
func (p *StripePlatform) GetAccount(ctx context.Context, accountID string) (Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return Account{}, fmt.Errorf("retrieve stripe account: %w", err)
	}
	return fromStripeAccount(acct), nil
}

func fromStripeAccount(acct *stripe.Account) Account {
	return Account{
		ID:               acct.ID,
		DetailsSubmitted: acct.DetailsSubmitted,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
	}
}
