package ports

import (
	"context"

	"github.com/ewersson/app-api/internal/core/domain"
)

// CreateProductInput carries the fields submitted for a new product.
type CreateProductInput struct {
	ProductName    string
	Image          string
	Price          float64
	Stock          int
	IdempotencyKey string
}

// ProductResult is returned after creating a product.
type ProductResult struct {
	Product *domain.Product
	// AlreadyExisted is true when the Idempotency-Key matched an earlier creation.
	AlreadyExisted bool
}

// ProductService defines use-case operations for products.
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductResult, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, stock int) (*domain.Product, error)
}
