package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	productrepo "github.com/savemymealng-tech/smm-app-sub000/internal/repository/product"
)

// Apply inserts demo catalog data for manual testing. It is idempotent; the
// repository upserts by product id.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	repo := productrepo.NewPostgres(pool, logger)
	for _, p := range Products() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}

// Products is the demo catalog. Exposed so memory-backed deployments can seed
// the same data without a database.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:                   "jollof-rice",
			VendorID:             "mama-cass",
			Name:                 "Jollof Rice with Chicken",
			Price:                decimal.RequireFromString("2500.00"),
			ImageURL:             "https://cdn.example.com/meals/jollof-rice.jpg",
			AvailableForDelivery: true,
			AvailableForPickup:   true,
			DeliveryFee:          decimal.RequireFromString("400.00"),
		},
		{
			ID:                   "suya-platter",
			VendorID:             "suya-spot",
			Name:                 "Beef Suya Platter",
			Price:                decimal.RequireFromString("3200.00"),
			ImageURL:             "https://cdn.example.com/meals/suya-platter.jpg",
			AvailableForDelivery: true,
			DeliveryFee:          decimal.RequireFromString("500.00"),
		},
		{
			ID:                 "moi-moi",
			VendorID:           "mama-cass",
			Name:               "Moi Moi (2 wraps)",
			Price:              decimal.RequireFromString("800.00"),
			ImageURL:           "https://cdn.example.com/meals/moi-moi.jpg",
			AvailableForPickup: true,
		},
		{
			ID:                   "egusi-soup",
			VendorID:             "iya-basira",
			Name:                 "Egusi Soup with Pounded Yam",
			Price:                decimal.RequireFromString("2800.00"),
			ImageURL:             "https://cdn.example.com/meals/egusi-soup.jpg",
			AvailableForDelivery: true,
			AvailableForPickup:   true,
			DeliveryFee:          decimal.RequireFromString("450.00"),
		},
	}
}
