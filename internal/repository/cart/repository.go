package cart

import (
	"context"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// Repository stores customer-scoped cart lines for the authoritative cart.
type Repository interface {
	// List returns the customer's lines in insertion order.
	List(ctx context.Context, customerID string) ([]domain.CartItem, error)
	// AddItem inserts a line, or increments the quantity when the customer
	// already has one for the product.
	AddItem(ctx context.Context, customerID string, product domain.Product, quantity int, method domain.FulfillmentMethod, requiresChoice bool) error
	// UpdateItem sets quantity and, when method is not unset, the
	// fulfillment method of the customer's line for productID.
	UpdateItem(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) error
	// RemoveItem deletes the line for productID. Deleting an absent line is
	// not an error.
	RemoveItem(ctx context.Context, customerID, productID string) error
	// Clear deletes every line of the customer.
	Clear(ctx context.Context, customerID string) error
}
