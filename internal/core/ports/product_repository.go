package ports

import (
	"context"

	"github.com/ewersson/app-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	// Delete returns domain.ErrProductNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, stock int) (*domain.Product, error)
}

// IdempotencyStore binds a client-supplied Idempotency-Key to the product it produced.
type IdempotencyStore interface {
	// Claim binds key to productID unless the key is already bound. It returns
	// the id bound to key and whether this call made the binding.
	Claim(ctx context.Context, key, productID string) (boundID string, claimed bool, err error)
	// Release drops the binding of key to productID. Other bindings are left alone.
	Release(ctx context.Context, key, productID string) error
}
