package identity

import "time"

// User is the local record for a marketplace member. The ID mirrors the
// identity issuer's subject identifier. PaymentAccountID is empty until the
// seller first initiates payment onboarding, and once set is never reassigned.
type User struct {
	ID               string
	Email            string
	Name             string
	PaymentAccountID string
	CreatedAt        time.Time
}
