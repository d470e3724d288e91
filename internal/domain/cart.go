package domain

import "github.com/shopspring/decimal"

// FulfillmentMethod says how a cart line should reach the customer.
type FulfillmentMethod string

const (
	FulfillmentUnset    FulfillmentMethod = ""
	FulfillmentPickup   FulfillmentMethod = "pickup"
	FulfillmentDelivery FulfillmentMethod = "delivery"
)

// Valid reports whether m is one of the known methods (unset included).
func (m FulfillmentMethod) Valid() bool {
	switch m {
	case FulfillmentUnset, FulfillmentPickup, FulfillmentDelivery:
		return true
	}
	return false
}

// CartItem is the canonical cart line. Both the guest store and the remote
// cart are normalized into this shape before anything else looks at them.
//
// Invariants: Quantity >= 1 (a zero-quantity line is absent, never stored)
// and TotalPrice == UnitPrice * Quantity after every mutation.
type CartItem struct {
	ID                        string            `json:"id"`
	ProductID                 string            `json:"productId"`
	VendorID                  string            `json:"vendorId,omitempty"`
	Product                   Product           `json:"product"`
	Quantity                  int               `json:"quantity"`
	UnitPrice                 decimal.Decimal   `json:"unitPrice"`
	TotalPrice                decimal.Decimal   `json:"totalPrice"`
	FulfillmentMethod         FulfillmentMethod `json:"fulfillmentMethod,omitempty"`
	RequiresFulfillmentChoice bool              `json:"requiresFulfillmentChoice,omitempty"`
}

// SetQuantity updates the quantity and keeps the price invariant.
func (i *CartItem) SetQuantity(quantity int) {
	i.Quantity = quantity
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Snapshot is the derived cart view handed to callers. It is recomputed on
// every read and never stored.
type Snapshot struct {
	Items         []CartItem      `json:"items"`
	TotalItems    int             `json:"totalItems"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	ServiceFee    decimal.Decimal `json:"serviceFee"`
	Tax           decimal.Decimal `json:"tax"`
	Authenticated bool            `json:"isAuthenticated"`
}
