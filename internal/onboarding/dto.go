package onboarding

// AccountLinkResponse carries the onboarding URL issued by the platform.
type AccountLinkResponse struct {
	AccountLinkURL string `json:"accountLinkUrl"`
}

// AccountStatusResponse is the API shape for an existing payment account.
type AccountStatusResponse struct {
	ID             string `json:"id"`
	Verified       bool   `json:"verified"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
	ChargesEnabled bool   `json:"charges_enabled"`
}
