package domain

import "errors"

// Authentication and authorization outcomes.
var (
	ErrDuplicateLogin         = errors.New("login already taken")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("access denied")
	ErrTokenSecretMissing     = errors.New("token secret is not configured")
)

var ErrUserNotFound = errors.New("user not found")
var ErrProductNotFound = errors.New("product not found")
var ErrInvalidStock = errors.New("stock must not be negative")

// ErrIdempotencyKeyInUse means the key is bound to a product that is not
// stored: another request holding the key is still creating it, or the
// product was deleted before the key expired.
var ErrIdempotencyKeyInUse = errors.New("idempotency key is in use")
