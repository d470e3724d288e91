// Package totals derives billing figures from a canonical item list.
package totals

import (
	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// Totals holds every derived figure for a cart. ServiceFee and Tax are part
// of the contract but carry no business rule yet; they stay explicit zeros.
type Totals struct {
	TotalItems  int
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	ServiceFee  decimal.Decimal
	Tax         decimal.Decimal
}

// Compute derives totals from items. Pure: it reads item fields only and
// never mutates its input.
func Compute(items []domain.CartItem) Totals {
	t := Totals{
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
		ServiceFee:  decimal.Zero,
		Tax:         decimal.Zero,
	}
	for _, item := range items {
		t.TotalItems += item.Quantity
		t.Subtotal = t.Subtotal.Add(item.TotalPrice)
		if fee, ok := deliveryFee(item); ok {
			t.DeliveryFee = t.DeliveryFee.Add(fee)
		}
	}
	return t
}

// deliveryFee returns the fee an item contributes, if any. An item pays its
// fee when the customer chose delivery, or when delivery is the only method
// the product supports and no choice was ever possible.
func deliveryFee(item domain.CartItem) (decimal.Decimal, bool) {
	p := item.Product
	if !p.AvailableForDelivery || p.DeliveryFee.IsZero() {
		return decimal.Zero, false
	}
	if item.FulfillmentMethod == domain.FulfillmentDelivery || p.DeliveryOnly() {
		return p.DeliveryFee, true
	}
	return decimal.Zero, false
}

// SnapshotFrom assembles the derived read view for items.
func SnapshotFrom(items []domain.CartItem, authenticated bool) domain.Snapshot {
	t := Compute(items)
	return domain.Snapshot{
		Items:         items,
		TotalItems:    t.TotalItems,
		Subtotal:      t.Subtotal,
		DeliveryFee:   t.DeliveryFee,
		ServiceFee:    t.ServiceFee,
		Tax:           t.Tax,
		Authenticated: authenticated,
	}
}
