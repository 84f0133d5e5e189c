package ports

import "context"

type AuthService interface {
	// Enabled reports whether a secret was configured. When false the
	// /api routes are public and Login always fails.
	Enabled() bool
	Login(ctx context.Context, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (bool, error)
}
