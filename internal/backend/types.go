// Package backend speaks the authoritative cart service's wire contract.
// The reference server in internal/httpserver renders these same types, so
// client and server cannot drift apart.
package backend

import (
	"context"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// CartResponse is the normalized response shape of every cart endpoint.
// Subtotal is a fixed-2 decimal string ("0.00" for an empty cart).
type CartResponse struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"total_items"`
	Subtotal   string `json:"subtotal"`
}

// Item is a remote cart line as the service serializes it.
type Item struct {
	ID                string   `json:"id"`
	ProductID         string   `json:"product_id"`
	VendorID          string   `json:"vendor_id,omitempty"`
	Quantity          int      `json:"quantity"`
	FulfillmentMethod string   `json:"fulfillment_method,omitempty"`
	Product           *Product `json:"product,omitempty"`
}

// Product is the nested product snapshot on a remote line. Money fields are
// decimal strings.
type Product struct {
	ID                   string `json:"id"`
	VendorID             string `json:"vendor_id,omitempty"`
	Name                 string `json:"name"`
	Price                string `json:"price"`
	ImageURL             string `json:"image_url,omitempty"`
	AvailableForDelivery bool   `json:"available_for_delivery"`
	AvailableForPickup   bool   `json:"available_for_pickup"`
	DeliveryFee          string `json:"delivery_fee,omitempty"`
}

// MutationInput carries the fields of an add or update call.
type MutationInput struct {
	ProductID         string                   `json:"product_id"`
	Quantity          int                      `json:"quantity"`
	FulfillmentMethod domain.FulfillmentMethod `json:"fulfillment_method,omitempty"`
}

// Client performs the remote cart operations. Implementations are stateless;
// the caller owns caching and retry policy.
type Client interface {
	// GetCart fetches the authoritative cart. A missing cart is an empty
	// cart, not an error.
	GetCart(ctx context.Context) (*CartResponse, error)
	AddToCart(ctx context.Context, in MutationInput) (*CartResponse, error)
	UpdateCart(ctx context.Context, in MutationInput) (*CartResponse, error)
	RemoveFromCart(ctx context.Context, productID string) (*CartResponse, error)
	ClearCart(ctx context.Context) error
}

// EmptyCart is the canonical empty response shape.
func EmptyCart() *CartResponse {
	return &CartResponse{Items: []Item{}, TotalItems: 0, Subtotal: "0.00"}
}
