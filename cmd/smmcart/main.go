// Command smmcart is a terminal client for the cart service. Without a
// CART_API_TOKEN it works against the local guest cart; with one it works
// against the customer's remote cart, merging any guest items on first use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/cartsync"
	"github.com/savemymealng-tech/smm-app-sub000/internal/config"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	"github.com/savemymealng-tech/smm-app-sub000/internal/localstore"
	"github.com/savemymealng-tech/smm-app-sub000/internal/normalize"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[smmcart] ", log.LstdFlags)

	auth := cartsync.NewAuthStore()
	client := backend.NewHTTPClient(cfg.CartAPIBaseURL, nil, func() string { return cfg.CartAPIToken })
	co := cartsync.New(cartsync.Config{
		Auth:     auth,
		Local:    localstore.New(cfg.LocalCartPath),
		Client:   client,
		CacheTTL: cfg.CacheTTL,
		Notifier: cartsync.NewLogNotifier(logger),
		Logger:   logger,
	})
	defer co.Close()
	dispatcher := cartsync.NewDispatcher(co)

	// Signing in is flipping the token on; the coordinator merges the guest
	// cart into the account on this transition.
	auth.SetAuthenticated(cfg.CartAPIToken != "")

	ctx := context.Background()
	if err := run(ctx, cfg, co, dispatcher, flag.Args()); err != nil {
		logger.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func run(ctx context.Context, cfg config.Config, co *cartsync.Coordinator, d *cartsync.Dispatcher, args []string) error {
	switch cmd := args[0]; cmd {
	case "show":
		return show(ctx, co)
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: add <product-id> <quantity> [pickup|delivery]")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad quantity %q", args[2])
		}
		method := domain.FulfillmentUnset
		if len(args) > 3 {
			method = domain.FulfillmentMethod(args[3])
		}
		product, err := fetchProduct(ctx, cfg.CartAPIBaseURL, args[1])
		if err != nil {
			return err
		}
		if err := d.Add(ctx, cartsync.AddInput{
			ProductID:         args[1],
			Quantity:          qty,
			Product:           product,
			FulfillmentMethod: method,
		}); err != nil {
			return err
		}
		return show(ctx, co)
	case "update":
		if len(args) < 3 {
			return fmt.Errorf("usage: update <product-id> <quantity> [pickup|delivery]")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad quantity %q", args[2])
		}
		method := domain.FulfillmentUnset
		if len(args) > 3 {
			method = domain.FulfillmentMethod(args[3])
		}
		if err := d.Update(ctx, cartsync.UpdateInput{
			ProductID:         args[1],
			Quantity:          qty,
			FulfillmentMethod: method,
		}); err != nil {
			return err
		}
		return show(ctx, co)
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: remove <product-id>")
		}
		if err := removeByProduct(ctx, co, d, args[1]); err != nil {
			return err
		}
		return show(ctx, co)
	case "clear":
		if err := d.Clear(ctx); err != nil {
			return err
		}
		return show(ctx, co)
	case "products":
		return listProducts(ctx, cfg.CartAPIBaseURL)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func show(ctx context.Context, co *cartsync.Coordinator) error {
	snap, err := co.Snapshot(ctx)
	if err != nil {
		return err
	}

	if len(snap.Items) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}
	for _, it := range snap.Items {
		line := fmt.Sprintf("%-30s x%-3d %10s", it.Product.Name, it.Quantity, it.TotalPrice.StringFixed(2))
		if it.RequiresFulfillmentChoice {
			line += "  (choose pickup or delivery)"
		} else if it.FulfillmentMethod != domain.FulfillmentUnset {
			line += "  (" + string(it.FulfillmentMethod) + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("\nItems:        %d\n", snap.TotalItems)
	fmt.Printf("Subtotal:     %s\n", snap.Subtotal.StringFixed(2))
	fmt.Printf("Delivery fee: %s\n", snap.DeliveryFee.StringFixed(2))
	fmt.Printf("Service fee:  %s\n", snap.ServiceFee.StringFixed(2))
	fmt.Printf("Tax:          %s\n", snap.Tax.StringFixed(2))
	return nil
}

// removeByProduct resolves the line id for guest carts, where lines are
// addressed by their synthesized id.
func removeByProduct(ctx context.Context, co *cartsync.Coordinator, d *cartsync.Dispatcher, productID string) error {
	snap, err := co.Snapshot(ctx)
	if err != nil {
		return err
	}
	itemID := ""
	for _, it := range snap.Items {
		if it.ProductID == productID {
			itemID = it.ID
			break
		}
	}
	return d.Remove(ctx, itemID, productID)
}

func listProducts(ctx context.Context, baseURL string) error {
	products, err := fetchProducts(ctx, baseURL)
	if err != nil {
		return err
	}
	for _, p := range products {
		channels := ""
		if p.AvailableForDelivery {
			channels = "delivery"
		}
		if p.AvailableForPickup {
			if channels != "" {
				channels += "+"
			}
			channels += "pickup"
		}
		fmt.Printf("%-20s %-30s %10s  %s\n", p.ID, p.Name, p.Price, channels)
	}
	return nil
}

func fetchProduct(ctx context.Context, baseURL, id string) (domain.Product, error) {
	products, err := fetchProducts(ctx, baseURL)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			item := normalize.Item(backend.Item{ProductID: p.ID, Product: &p})
			return item.Product, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %q not in catalog", id)
}

func fetchProducts(ctx context.Context, baseURL string) ([]backend.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/products", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var payload struct {
		Products []backend.Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return payload.Products, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: smmcart <command> [args]

Commands:
  products                                 list the catalog
  show                                     print the cart
  add <product-id> <qty> [pickup|delivery] add a product
  update <product-id> <qty> [pickup|delivery]
  remove <product-id>                      remove a line
  clear                                    empty the cart

Environment:
  CART_API_BASE_URL  cart service base URL (default http://localhost:8080)
  CART_API_TOKEN     bearer token; unset means guest mode
  LOCAL_CART_PATH    guest cart file location
`)
}
