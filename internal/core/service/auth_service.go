package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ewersson/app-api/internal/core/domain"
	"github.com/ewersson/app-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a user. It does not issue a token.
func (s *AuthService) Register(ctx context.Context, login, password, role string) error {
	exists, err := s.users.ExistsByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if exists {
		return domain.ErrDuplicateLogin
	}

	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hash,
		Role:         parsedRole,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration may win the race after ExistsByLogin.
		if errors.Is(err, domain.ErrDuplicateLogin) {
			return domain.ErrDuplicateLogin
		}
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return nil
}

// Login verifies credentials and returns a signed token. Unknown logins and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("reason", "unknown_login").Msg("login rejected")
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("reason", "password_mismatch").Str("user_id", user.ID).Msg("login rejected")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Login)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}
