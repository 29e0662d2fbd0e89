// Package identity verifies federated login tokens from external identity
// providers.
package identity

import "context"

// Claims are the identity attributes extracted from a verified provider token.
type Claims struct {
	Subject  string
	Email    string
	Name     string
	PhotoURL string
}

// Provider verifies an ID token issued by an external identity provider.
type Provider interface {
	VerifyToken(ctx context.Context, idToken string) (*Claims, error)
}
