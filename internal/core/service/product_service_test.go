package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ewersson/app-api/internal/core/domain"
	"github.com/ewersson/app-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID      map[string]*domain.Product
	creates   int
	createErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) UpdateStock(_ context.Context, id string, stock int) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Stock = stock
	clone := *p
	return &clone, nil
}

type stubIdempotency struct {
	keys     map[string]string
	claimErr error
	released []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Claim(_ context.Context, key, productID string) (string, bool, error) {
	if s.claimErr != nil {
		return "", false, s.claimErr
	}
	if bound, ok := s.keys[key]; ok {
		return bound, false, nil
	}
	s.keys[key] = productID
	return productID, true, nil
}

func (s *stubIdempotency) Release(_ context.Context, key, productID string) error {
	if s.keys[key] == productID {
		delete(s.keys, key)
		s.released = append(s.released, key)
	}
	return nil
}

func laptopInput(key string) ports.CreateProductInput {
	return ports.CreateProductInput{
		ProductName:    "Laptop",
		Image:          "https://example.com/laptop.png",
		Price:          2500.0,
		Stock:          10,
		IdempotencyKey: key,
	}
}

// ---------------------------------------------------------------------------
// CreateProduct
// ---------------------------------------------------------------------------

func TestCreateProduct_Success(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, zerolog.Nop())

	result, err := svc.CreateProduct(context.Background(), laptopInput(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AlreadyExisted {
		t.Fatalf("expected fresh product")
	}
	p := result.Product
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if p.ProductName != "Laptop" || p.Image != "https://example.com/laptop.png" || p.Price != 2500.0 || p.Stock != 10 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("expected product persisted")
	}
}

func TestCreateProduct_IdempotentReplay(t *testing.T) {
	repo := newStubProductRepo()
	keys := newStubIdempotency()
	svc := NewProductService(repo, keys, zerolog.Nop())

	first, err := svc.CreateProduct(context.Background(), laptopInput("key-1"))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.CreateProduct(context.Background(), laptopInput("key-1"))
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if !second.AlreadyExisted {
		t.Fatalf("expected replay to be flagged")
	}
	if second.Product.ID != first.Product.ID {
		t.Fatalf("expected same product, got %s and %s", first.Product.ID, second.Product.ID)
	}
	if repo.creates != 1 {
		t.Fatalf("expected a single insert, got %d", repo.creates)
	}
}

func TestCreateProduct_IdempotencyClaimFailureStillCreates(t *testing.T) {
	repo := newStubProductRepo()
	keys := newStubIdempotency()
	keys.claimErr = errors.New("redis down")
	svc := NewProductService(repo, keys, zerolog.Nop())

	if _, err := svc.CreateProduct(context.Background(), laptopInput("key-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected insert, got %d", repo.creates)
	}
}

func TestCreateProduct_KeyClaimedBeforeInsert(t *testing.T) {
	repo := newStubProductRepo()
	keys := newStubIdempotency()
	svc := NewProductService(repo, keys, zerolog.Nop())

	result, err := svc.CreateProduct(context.Background(), laptopInput("key-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys.keys["key-1"] != result.Product.ID {
		t.Fatalf("expected key bound to the created product, got %q", keys.keys["key-1"])
	}
}

func TestCreateProduct_KeyHeldByUnstoredProduct(t *testing.T) {
	repo := newStubProductRepo()
	keys := newStubIdempotency()
	// another request claimed the key and has not inserted yet
	keys.keys["key-1"] = "in-flight"
	svc := NewProductService(repo, keys, zerolog.Nop())

	_, err := svc.CreateProduct(context.Background(), laptopInput("key-1"))
	if !errors.Is(err, domain.ErrIdempotencyKeyInUse) {
		t.Fatalf("expected ErrIdempotencyKeyInUse, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatalf("expected no insert, got %d", repo.creates)
	}
	if keys.keys["key-1"] != "in-flight" {
		t.Fatalf("the other request's claim must be kept")
	}
}

func TestCreateProduct_FailedInsertReleasesKey(t *testing.T) {
	repo := newStubProductRepo()
	repo.createErr = errors.New("db down")
	keys := newStubIdempotency()
	svc := NewProductService(repo, keys, zerolog.Nop())

	if _, err := svc.CreateProduct(context.Background(), laptopInput("key-1")); err == nil {
		t.Fatalf("expected error")
	}
	if _, held := keys.keys["key-1"]; held || len(keys.released) != 1 {
		t.Fatalf("expected key to be released after a failed insert")
	}

	repo.createErr = nil
	result, err := svc.CreateProduct(context.Background(), laptopInput("key-1"))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.AlreadyExisted || repo.creates != 1 {
		t.Fatalf("expected the retry to create the product")
	}
}

func TestCreateProduct_RepoError(t *testing.T) {
	repo := newStubProductRepo()
	repo.createErr = errors.New("db down")
	svc := NewProductService(repo, nil, zerolog.Nop())

	if _, err := svc.CreateProduct(context.Background(), laptopInput("")); err == nil {
		t.Fatalf("expected error")
	}
}

// ---------------------------------------------------------------------------
// Read / delete / stock
// ---------------------------------------------------------------------------

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), nil, zerolog.Nop())

	if _, err := svc.GetProduct(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, zerolog.Nop())

	_, _ = svc.CreateProduct(context.Background(), laptopInput(""))
	_, _ = svc.CreateProduct(context.Background(), laptopInput(""))

	list, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, zerolog.Nop())

	created, _ := svc.CreateProduct(context.Background(), laptopInput(""))
	if err := svc.DeleteProduct(context.Background(), created.Product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteProduct(context.Background(), created.Product.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestUpdateStock(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, zerolog.Nop())

	created, _ := svc.CreateProduct(context.Background(), laptopInput(""))

	updated, err := svc.UpdateStock(context.Background(), created.Product.ID, 3)
	if err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if updated.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", updated.Stock)
	}

	if _, err := svc.UpdateStock(context.Background(), created.Product.ID, -1); !errors.Is(err, domain.ErrInvalidStock) {
		t.Fatalf("expected ErrInvalidStock, got %v", err)
	}
	if _, err := svc.UpdateStock(context.Background(), "missing", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
