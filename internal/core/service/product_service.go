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

type ProductService struct {
	repo        ports.ProductRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
}

// NewProductService wires the product use cases. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewProductService(repo ports.ProductRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, idempotency: idempotency, logger: logger}
}

// CreateProduct creates a new product. If an idempotency key is provided, the
// key is claimed before the insert so concurrent requests with the same key
// produce one product; the losers get the winner's product back.
func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*ports.ProductResult, error) {
	product := &domain.Product{
		ID:          uuid.NewString(),
		ProductName: input.ProductName,
		Image:       input.Image,
		Price:       input.Price,
		Stock:       input.Stock,
		CreatedAt:   time.Now().UTC(),
	}

	key := input.IdempotencyKey
	useKey := key != "" && s.idempotency != nil

	if useKey {
		boundID, claimed, err := s.idempotency.Claim(ctx, key, product.ID)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, creating anyway")
			useKey = false
		case !claimed:
			return s.replay(ctx, key, boundID)
		}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		if useKey {
			if rerr := s.idempotency.Release(ctx, key, product.ID); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")
	return &ports.ProductResult{Product: product}, nil
}

// replay answers a request whose idempotency key is already bound to productID.
func (s *ProductService) replay(ctx context.Context, key, productID string) (*ports.ProductResult, error) {
	existing, err := s.repo.FindByID(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		s.logger.Info().Str("idempotency_key", key).Str("product_id", productID).Msg("idempotency key bound to a product that is not stored")
		return nil, domain.ErrIdempotencyKeyInUse
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info().Str("idempotency_key", key).Str("product_id", productID).Msg("idempotent replay")
	return &ports.ProductResult{Product: existing, AlreadyExisted: true}, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// UpdateStock replaces the stock quantity of a product.
func (s *ProductService) UpdateStock(ctx context.Context, id string, stock int) (*domain.Product, error) {
	if stock < 0 {
		return nil, domain.ErrInvalidStock
	}
	return s.repo.UpdateStock(ctx, id, stock)
}
