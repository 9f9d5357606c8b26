package cart

import (
	"context"
	"sync"

	"github.com/MikeMC777/storefront/internal/product"
)

// MemStore keeps carts in process memory. Values are copied in and out so
// callers cannot mutate stored carts through shared slices.
type MemStore struct {
	mu    sync.RWMutex
	carts map[string]Cart
}

func NewMemStore() *MemStore {
	return &MemStore{carts: make(map[string]Cart)}
}

func clone(c Cart) Cart {
	if c.Items != nil {
		c.Items = append(c.Items[:0:0], c.Items...)
	}
	return c
}

func (s *MemStore) Create(ctx context.Context, id string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; ok {
		return ErrAlreadyExist
	}
	s.carts[id] = clone(c)
	return nil
}

func (s *MemStore) Get(ctx context.Context, id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(c)
	return &out, nil
}

func (s *MemStore) Put(ctx context.Context, id string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return ErrNotFound
	}
	s.carts[id] = clone(c)
	return nil
}

func (s *MemStore) Append(ctx context.Context, id string, p product.Product) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = clone(c)
	c.Items = append(c.Items, p)
	s.carts[id] = c
	out := clone(c)
	return &out, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return false, nil
	}
	delete(s.carts, id)
	return true, nil
}
