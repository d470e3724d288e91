package cartsync

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// Operation identifies a mutation entry point for pending indicators.
type Operation int

const (
	OpAdd Operation = iota
	OpUpdate
	OpRemove
	OpClear
	opCount
)

// AddInput carries an add mutation. Product is the snapshot taken at add
// time; it is persisted with the line and never re-priced.
type AddInput struct {
	ProductID         string
	Quantity          int
	Product           domain.Product
	FulfillmentMethod domain.FulfillmentMethod
}

// UpdateInput carries a quantity or fulfillment update. ItemID addresses the
// line in the guest store; ProductID addresses it remotely and doubles as the
// guest-store fallback.
type UpdateInput struct {
	ItemID            string
	ProductID         string
	Quantity          int
	FulfillmentMethod domain.FulfillmentMethod
}

// Dispatcher routes cart mutations to the store that owns truth: the remote
// service when authenticated, the guest store otherwise. Remote responses
// replace the cached cart wholesale; guest writes apply synchronously.
type Dispatcher struct {
	co      *Coordinator
	pending [opCount]atomic.Int32
}

// NewDispatcher builds a Dispatcher sharing co's stores and cache.
func NewDispatcher(co *Coordinator) *Dispatcher {
	return &Dispatcher{co: co}
}

// Pending reports whether a mutation of kind op is in flight.
func (d *Dispatcher) Pending(op Operation) bool {
	return d.pending[op].Load() > 0
}

func (d *Dispatcher) track(op Operation) func() {
	d.pending[op].Add(1)
	return func() { d.pending[op].Add(-1) }
}

// Add puts quantity units of a product into the cart.
func (d *Dispatcher) Add(ctx context.Context, in AddInput) error {
	defer d.track(OpAdd)()

	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	if d.co.auth.IsAuthenticated() {
		resp, err := d.co.client.AddToCart(ctx, backend.MutationInput{
			ProductID:         in.ProductID,
			Quantity:          in.Quantity,
			FulfillmentMethod: in.FulfillmentMethod,
		})
		if err != nil {
			d.fail("Could not add item to cart.")
			return err
		}
		d.co.cache.Put(resp)
		d.ok("Item added to cart.")
		return nil
	}

	err := d.co.local.Mutate(func(items []domain.CartItem) ([]domain.CartItem, error) {
		for i := range items {
			if items[i].ProductID == in.ProductID {
				items[i].SetQuantity(items[i].Quantity + in.Quantity)
				return items, nil
			}
		}
		return append(items, newGuestItem(in)), nil
	})
	if err != nil {
		d.fail("Could not add item to cart.")
		return err
	}
	d.ok("Item added to cart.")
	return nil
}

// Update changes a line's quantity and, optionally, its fulfillment method.
// A quantity below 1 is rejected; removal goes through Remove.
func (d *Dispatcher) Update(ctx context.Context, in UpdateInput) error {
	defer d.track(OpUpdate)()

	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	if d.co.auth.IsAuthenticated() {
		resp, err := d.co.client.UpdateCart(ctx, backend.MutationInput{
			ProductID:         in.ProductID,
			Quantity:          in.Quantity,
			FulfillmentMethod: in.FulfillmentMethod,
		})
		if err != nil {
			d.fail("Could not update cart.")
			return err
		}
		d.co.cache.Put(resp)
		d.ok("Cart updated.")
		return nil
	}

	err := d.co.local.Mutate(func(items []domain.CartItem) ([]domain.CartItem, error) {
		idx := findItem(items, in.ItemID, in.ProductID)
		if idx < 0 {
			return nil, domain.ErrNotFound
		}
		items[idx].SetQuantity(in.Quantity)
		if in.FulfillmentMethod != domain.FulfillmentUnset {
			items[idx].FulfillmentMethod = in.FulfillmentMethod
			items[idx].RequiresFulfillmentChoice = false
		}
		return items, nil
	})
	if err != nil {
		d.fail("Could not update cart.")
		return err
	}
	d.ok("Cart updated.")
	return nil
}

// Remove deletes a line. Removing an absent line is a success: the cart ends
// in the requested state either way.
func (d *Dispatcher) Remove(ctx context.Context, itemID, productID string) error {
	defer d.track(OpRemove)()

	if d.co.auth.IsAuthenticated() {
		if productID == "" {
			// Nothing addressable remotely; the line cannot exist there.
			return nil
		}
		resp, err := d.co.client.RemoveFromCart(ctx, productID)
		if err != nil {
			d.fail("Could not remove item from cart.")
			return err
		}
		d.co.cache.Put(resp)
		d.ok("Item removed from cart.")
		return nil
	}

	err := d.co.local.Mutate(func(items []domain.CartItem) ([]domain.CartItem, error) {
		kept := items[:0]
		for _, it := range items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		return kept, nil
	})
	if err != nil {
		d.fail("Could not remove item from cart.")
		return err
	}
	d.ok("Item removed from cart.")
	return nil
}

// Clear empties the cart.
func (d *Dispatcher) Clear(ctx context.Context) error {
	defer d.track(OpClear)()

	if d.co.auth.IsAuthenticated() {
		if err := d.co.client.ClearCart(ctx); err != nil {
			d.fail("Could not clear cart.")
			return err
		}
		d.co.cache.Put(backend.EmptyCart())
		d.ok("Cart cleared.")
		return nil
	}

	if err := d.co.local.Clear(); err != nil {
		d.fail("Could not clear cart.")
		return err
	}
	d.ok("Cart cleared.")
	return nil
}

func (d *Dispatcher) ok(msg string) {
	d.co.notifier.Notify(Notification{Severity: SeveritySuccess, Message: msg})
}

func (d *Dispatcher) fail(msg string) {
	d.co.notifier.Notify(Notification{Severity: SeverityError, Message: msg})
}

// newGuestItem synthesizes a canonical line for the guest store.
func newGuestItem(in AddInput) domain.CartItem {
	method, requiresChoice := domain.ChooseFulfillment(in.Product, in.FulfillmentMethod)
	item := domain.CartItem{
		ID:                        uuid.NewString(),
		ProductID:                 in.ProductID,
		VendorID:                  in.Product.VendorID,
		Product:                   in.Product,
		UnitPrice:                 in.Product.Price,
		FulfillmentMethod:         method,
		RequiresFulfillmentChoice: requiresChoice,
	}
	item.SetQuantity(in.Quantity)
	return item
}

func findItem(items []domain.CartItem, itemID, productID string) int {
	for i := range items {
		if itemID != "" && items[i].ID == itemID {
			return i
		}
	}
	for i := range items {
		if productID != "" && items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
