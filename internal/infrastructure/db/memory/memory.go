// Package memory implements in-memory credential and product stores for
// development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ewersson/app-api/internal/core/domain"
	"github.com/ewersson/app-api/internal/core/ports"
)

var (
	_ ports.UserRepository    = (*UserStore)(nil)
	_ ports.ProductRepository = (*ProductStore)(nil)
)

// UserStore keeps users keyed by login.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[login]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) ExistsByLogin(_ context.Context, login string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[login]
	return ok, nil
}

// Create checks uniqueness and inserts under the same lock.
func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Login]; ok {
		return nil, domain.ErrDuplicateLogin
	}
	s.users[user.Login] = *user
	created := *user
	return &created, nil
}

// Delete removes a user. It is not part of the API surface.
func (s *UserStore) Delete(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, login)
}

// ProductStore keeps products keyed by id.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

func (s *ProductStore) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// FindAll returns products oldest first.
func (s *ProductStore) FindAll(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *ProductStore) UpdateStock(_ context.Context, id string, stock int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Stock = stock
	s.products[id] = p
	return &p, nil
}
