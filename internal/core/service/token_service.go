package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ewersson/app-api/internal/core/domain"
)

const (
	// TokenIssuer binds every token to this service.
	TokenIssuer = "app-api"
	// TokenTTL is the lifetime of an issued token. There is no revocation.
	TokenTTL = 24 * time.Hour
)

// TokenService issues and validates HS256-signed JWTs whose subject is a user login.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService returns domain.ErrTokenSecretMissing when secret is empty.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, domain.ErrTokenSecretMissing
	}
	s := &TokenService{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject, expiring TokenTTL from now.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse checks signature, issuer and expiration and returns the subject.
// Every failure wraps domain.ErrTokenInvalid.
func (s *TokenService) Parse(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty token", domain.ErrTokenInvalid)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}
	return claims.Subject, nil
}

// Validate is the lenient form of Parse: every failure collapses to ok=false.
func (s *TokenService) Validate(token string) (string, bool) {
	subject, err := s.Parse(token)
	if err != nil {
		return "", false
	}
	return subject, true
}
