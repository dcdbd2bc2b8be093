package auth

// VerifiedIdentity is the request-scoped result of a successful bearer-token
// verification. It carries issuer facts only and is never persisted.
type VerifiedIdentity struct {
	Subject string
	Email   string
	Name    string
}
