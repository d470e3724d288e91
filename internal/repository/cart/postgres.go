package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context, customerID string) ([]domain.CartItem, error) {
	const q = `
SELECT id::text, product_id, COALESCE(vendor_id, ''), quantity, unit_price, total_price, COALESCE(fulfillment_method, ''), requires_choice, snapshot
FROM cart_items
WHERE customer_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item   domain.CartItem
			method string
			snap   []byte
		)
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.VendorID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&method,
			&item.RequiresFulfillmentChoice,
			&snap,
		); err != nil {
			return nil, err
		}
		item.FulfillmentMethod = domain.FulfillmentMethod(method)
		if len(snap) > 0 {
			if err := json.Unmarshal(snap, &item.Product); err != nil {
				return nil, fmt.Errorf("decode product snapshot for %s: %w", item.ProductID, err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) AddItem(ctx context.Context, customerID string, product domain.Product, quantity int, method domain.FulfillmentMethod, requiresChoice bool) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE customer_id = $1 AND product_id = $2
`, customerID, product.ID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = quantity + $1,
    total_price = unit_price * (quantity + $1)
WHERE customer_id = $2 AND product_id = $3
`, quantity, customerID, product.ID); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	snap, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product snapshot: %w", err)
	}
	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (customer_id, product_id, vendor_id, quantity, unit_price, total_price, fulfillment_method, requires_choice, snapshot)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8, $9)
`, customerID, product.ID, product.VendorID, quantity, product.Price, total, string(method), requiresChoice, snap); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateItem(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $1,
    total_price = unit_price * $1,
    fulfillment_method = COALESCE(NULLIF($2, ''), fulfillment_method),
    requires_choice = CASE WHEN NULLIF($2, '') IS NULL THEN requires_choice ELSE false END
WHERE customer_id = $3 AND product_id = $4
`, quantity, string(method), customerID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, customerID, productID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE customer_id = $1 AND product_id = $2
`, customerID, productID)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, customerID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE customer_id = $1
`, customerID)
	return err
}
