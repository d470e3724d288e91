package httpserver

import (
	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	"github.com/savemymealng-tech/smm-app-sub000/internal/totals"
)

// toCartResponse renders cart lines in the wire shape. Totals come from the
// same computation the client library uses.
func toCartResponse(items []domain.CartItem) backend.CartResponse {
	sums := totals.Compute(items)
	out := backend.CartResponse{
		Items:      make([]backend.Item, 0, len(items)),
		TotalItems: sums.TotalItems,
		Subtotal:   sums.Subtotal.StringFixed(2),
	}
	for _, it := range items {
		out.Items = append(out.Items, toWireItem(it))
	}
	return out
}

func toWireItem(it domain.CartItem) backend.Item {
	product := toWireProduct(it.Product)
	return backend.Item{
		ID:                it.ID,
		ProductID:         it.ProductID,
		VendorID:          it.VendorID,
		Quantity:          it.Quantity,
		FulfillmentMethod: string(it.FulfillmentMethod),
		Product:           &product,
	}
}

func toWireProduct(p domain.Product) backend.Product {
	return backend.Product{
		ID:                   p.ID,
		VendorID:             p.VendorID,
		Name:                 p.Name,
		Price:                p.Price.StringFixed(2),
		ImageURL:             p.ImageURL,
		AvailableForDelivery: p.AvailableForDelivery,
		AvailableForPickup:   p.AvailableForPickup,
		DeliveryFee:          p.DeliveryFee.StringFixed(2),
	}
}
