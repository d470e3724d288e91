package product

import (
	"context"
	"sort"
	"sync"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// memoryRepo keeps the catalog in memory. Used by tests and by local
// development without a database.
type memoryRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemory(seed ...domain.Product) Repository {
	r := &memoryRepo{products: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) Upsert(_ context.Context, product domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return &product, nil
}
