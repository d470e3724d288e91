package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// memoryRepo keeps carts in memory. Used by tests and by local development
// without a database.
type memoryRepo struct {
	mu    sync.Mutex
	carts map[string][]domain.CartItem
}

func NewMemory() Repository {
	return &memoryRepo{carts: make(map[string][]domain.CartItem)}
}

func (r *memoryRepo) List(_ context.Context, customerID string) ([]domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.carts[customerID]
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *memoryRepo) AddItem(_ context.Context, customerID string, product domain.Product, quantity int, method domain.FulfillmentMethod, requiresChoice bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.carts[customerID]
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].SetQuantity(items[i].Quantity + quantity)
			r.carts[customerID] = items
			return nil
		}
	}
	item := domain.CartItem{
		ID:                        uuid.NewString(),
		ProductID:                 product.ID,
		VendorID:                  product.VendorID,
		Product:                   product,
		UnitPrice:                 product.Price,
		FulfillmentMethod:         method,
		RequiresFulfillmentChoice: requiresChoice,
	}
	item.SetQuantity(quantity)
	r.carts[customerID] = append(items, item)
	return nil
}

func (r *memoryRepo) UpdateItem(_ context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.carts[customerID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].SetQuantity(quantity)
			if method != domain.FulfillmentUnset {
				items[i].FulfillmentMethod = method
				items[i].RequiresFulfillmentChoice = false
			}
			r.carts[customerID] = items
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryRepo) RemoveItem(_ context.Context, customerID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.carts[customerID]
	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	r.carts[customerID] = kept
	return nil
}

func (r *memoryRepo) Clear(_ context.Context, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, customerID)
	return nil
}
