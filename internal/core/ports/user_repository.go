package ports

import (
	"context"

	"github.com/ewersson/app-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByLogin returns domain.ErrUserNotFound when no user has that exact login.
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	// Create persists a new user. Implementations must reject a login that is
	// already stored with domain.ErrDuplicateLogin.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
