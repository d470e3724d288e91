package domain

import "github.com/shopspring/decimal"

// Product is the purchasable item as snapshotted at add time. The same shape
// backs the catalog on the server and the per-line snapshot on the client;
// cart lines are never re-priced from a live catalog.
type Product struct {
	ID                   string          `json:"id"`
	VendorID             string          `json:"vendorId,omitempty"`
	Name                 string          `json:"name"`
	Price                decimal.Decimal `json:"price"`
	ImageURL             string          `json:"imageUrl,omitempty"`
	AvailableForDelivery bool            `json:"availableForDelivery"`
	AvailableForPickup   bool            `json:"availableForPickup"`
	DeliveryFee          decimal.Decimal `json:"deliveryFee"`
}

// DeliveryOnly reports whether delivery is the only possible fulfillment.
func (p Product) DeliveryOnly() bool {
	return p.AvailableForDelivery && !p.AvailableForPickup
}

// PickupOnly reports whether pickup is the only possible fulfillment.
func (p Product) PickupOnly() bool {
	return p.AvailableForPickup && !p.AvailableForDelivery
}

// ChooseFulfillment resolves the effective method for a line given the
// customer's explicit choice. When the product leaves only one path the
// method is auto-selected; when both are possible and nothing was chosen the
// second return flags that a choice is still required.
func ChooseFulfillment(p Product, chosen FulfillmentMethod) (FulfillmentMethod, bool) {
	switch {
	case chosen != FulfillmentUnset:
		return chosen, false
	case p.DeliveryOnly():
		return FulfillmentDelivery, false
	case p.PickupOnly():
		return FulfillmentPickup, false
	case p.AvailableForDelivery && p.AvailableForPickup:
		return FulfillmentUnset, true
	}
	return FulfillmentUnset, false
}

// Supports reports whether the product can be fulfilled with m.
func (p Product) Supports(m FulfillmentMethod) bool {
	switch m {
	case FulfillmentPickup:
		return p.AvailableForPickup
	case FulfillmentDelivery:
		return p.AvailableForDelivery
	}
	return true
}
