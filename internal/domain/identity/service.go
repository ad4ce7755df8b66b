// internal/domain/identity/service.go

package identity

import (
	"context"
	"errors"
)

var (
	// ErrMissingToken is returned when a request carries no credentials
	ErrMissingToken = errors.New("missing access token")

	// ErrInvalidToken is returned when credentials fail verification
	ErrInvalidToken = errors.New("invalid access token")
)

// User is the authenticated caller as asserted by the identity provider
type User struct {
	ID    string
	Email string
	Role  string
}

// TokenVerifier validates access tokens issued by the identity provider
type TokenVerifier interface {
	// Verify checks the token signature and claims and returns its subject
	Verify(token string) (*User, error)
}

type contextKey struct{}

// WithUser attaches the authenticated user to ctx
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the authenticated user, if any
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextKey{}).(*User)
	return u, ok && u != nil
}
