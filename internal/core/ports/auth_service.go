package ports

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, login, password, role string) error
	Login(ctx context.Context, login, password string) (string, error)
}

// TokenService issues and validates bearer tokens for a subject (the user login).
type TokenService interface {
	Issue(subject string) (string, error)
	// Validate returns the token subject, or ok=false when the token cannot be
	// trusted for any reason.
	Validate(token string) (subject string, ok bool)
}

// PasswordHasher performs salted one-way password hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
