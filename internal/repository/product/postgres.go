package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, COALESCE(vendor_id, ''), name, price, COALESCE(image_url, ''), available_for_delivery, available_for_pickup, delivery_fee
FROM products
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.VendorID, &p.Name, &p.Price, &p.ImageURL, &p.AvailableForDelivery, &p.AvailableForPickup, &p.DeliveryFee); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, COALESCE(vendor_id, ''), name, price, COALESCE(image_url, ''), available_for_delivery, available_for_pickup, delivery_fee
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.VendorID, &p.Name, &p.Price, &p.ImageURL, &p.AvailableForDelivery, &p.AvailableForPickup, &p.DeliveryFee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, vendor_id, name, price, image_url, available_for_delivery, available_for_pickup, delivery_fee)
VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    vendor_id = EXCLUDED.vendor_id,
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url,
    available_for_delivery = EXCLUDED.available_for_delivery,
    available_for_pickup = EXCLUDED.available_for_pickup,
    delivery_fee = EXCLUDED.delivery_fee
`
	_, err := r.pool.Exec(ctx, q,
		product.ID,
		product.VendorID,
		product.Name,
		product.Price,
		product.ImageURL,
		product.AvailableForDelivery,
		product.AvailableForPickup,
		product.DeliveryFee,
	)
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", product.ID, err)
		return nil, err
	}
	return &product, nil
}
