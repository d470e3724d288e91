// Package normalize maps the two cart sources onto the canonical item model.
//
// Remote payloads are treated leniently: a missing product degrades to a
// placeholder and an unparseable price reads as zero. Neither case is an
// error; the rest of the pipeline must keep working on partial data.
package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// FromRemote converts a remote cart payload into canonical items.
func FromRemote(items []backend.Item) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, Item(it))
	}
	return out
}

// Item converts one remote line into a canonical item.
func Item(in backend.Item) domain.CartItem {
	product := productFrom(in)
	unit := product.Price
	item := domain.CartItem{
		ID:                lineID(in),
		ProductID:         in.ProductID,
		VendorID:          vendorFrom(in),
		Product:           product,
		UnitPrice:         unit,
		FulfillmentMethod: fulfillmentFrom(in.FulfillmentMethod),
	}
	item.SetQuantity(in.Quantity)
	return item
}

// FromLocal passes locally stored items through unchanged; the guest store
// already holds the canonical shape.
func FromLocal(items []domain.CartItem) []domain.CartItem {
	return items
}

func productFrom(in backend.Item) domain.Product {
	if in.Product == nil {
		// Keep the line usable even when the service omits the snapshot.
		return domain.Product{ID: in.ProductID}
	}
	p := in.Product
	return domain.Product{
		ID:                   p.ID,
		VendorID:             p.VendorID,
		Name:                 p.Name,
		Price:                parseDecimal(p.Price),
		ImageURL:             p.ImageURL,
		AvailableForDelivery: p.AvailableForDelivery,
		AvailableForPickup:   p.AvailableForPickup,
		DeliveryFee:          parseDecimal(p.DeliveryFee),
	}
}

func vendorFrom(in backend.Item) string {
	if in.VendorID != "" {
		return in.VendorID
	}
	if in.Product != nil {
		return in.Product.VendorID
	}
	return ""
}

func fulfillmentFrom(raw string) domain.FulfillmentMethod {
	m := domain.FulfillmentMethod(raw)
	if !m.Valid() {
		return domain.FulfillmentUnset
	}
	return m
}

func lineID(in backend.Item) string {
	if in.ID != "" {
		return in.ID
	}
	return in.ProductID
}

// parseDecimal reads a decimal string, defaulting to zero on empty or
// malformed input. A bad price must not take the whole cart view down.
func parseDecimal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
