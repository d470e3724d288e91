package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	"github.com/savemymealng-tech/smm-app-sub000/internal/migrate"
)

func testProduct(id, price string) domain.Product {
	return domain.Product{
		ID:                 id,
		VendorID:           "v1",
		Name:               "Meal " + id,
		Price:              decimal.RequireFromString(price),
		AvailableForPickup: true,
	}
}

func TestMemoryAddIncrementsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	p := testProduct("p1", "1000")

	if err := repo.AddItem(ctx, "cust", p, 2, domain.FulfillmentPickup, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddItem(ctx, "cust", p, 3, domain.FulfillmentPickup, false); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := repo.List(ctx, "cust")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected one line with qty 5, got %+v", items)
	}
	if !items[0].TotalPrice.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("total price invariant broken: %s", items[0].TotalPrice)
	}
}

func TestMemoryUpdateMissingLine(t *testing.T) {
	repo := NewMemory()
	err := repo.UpdateItem(context.Background(), "cust", "ghost", 2, domain.FulfillmentUnset)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	if err := repo.AddItem(ctx, "cust", testProduct("p1", "500"), 1, domain.FulfillmentPickup, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.RemoveItem(ctx, "cust", "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.RemoveItem(ctx, "cust", "p1"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	items, _ := repo.List(ctx, "cust")
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestMemoryCartsAreCustomerScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	if err := repo.AddItem(ctx, "a", testProduct("p1", "500"), 1, domain.FulfillmentPickup, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, _ := repo.List(ctx, "b")
	if len(items) != 0 {
		t.Fatalf("customer b must not see customer a's cart: %+v", items)
	}
}

func TestPostgres_AddListClear(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_items, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	repo := NewPostgres(pool)
	p := testProduct("p1", "1000")
	if err := repo.AddItem(ctx, "cust", p, 2, domain.FulfillmentPickup, false); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := repo.AddItem(ctx, "cust", p, 1, domain.FulfillmentPickup, false); err != nil {
		t.Fatalf("AddItem increment: %v", err)
	}

	items, err := repo.List(ctx, "cust")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].Product.Name != p.Name {
		t.Fatalf("snapshot not round-tripped: %+v", items[0].Product)
	}

	if err := repo.Clear(ctx, "cust"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	items, err = repo.List(ctx, "cust")
	if err != nil {
		t.Fatalf("List after clear: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}
