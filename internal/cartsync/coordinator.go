// Package cartsync reconciles the guest cart with the authoritative remote
// cart. The Coordinator decides which store owns truth, moves guest items to
// the server exactly once per login, and derives the unified read view; the
// Dispatcher routes mutations to whichever store currently owns the data.
package cartsync

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	"github.com/savemymealng-tech/smm-app-sub000/internal/localstore"
	"github.com/savemymealng-tech/smm-app-sub000/internal/normalize"
	"github.com/savemymealng-tech/smm-app-sub000/internal/totals"
)

// DefaultCacheTTL bounds how stale a cached remote cart may be served.
const DefaultCacheTTL = 30 * time.Second

// Config wires a Coordinator. Auth, Local and Client are required.
type Config struct {
	Auth     AuthState
	Local    *localstore.Store
	Client   backend.Client
	CacheTTL time.Duration
	Notifier Notifier
	Logger   *log.Logger
}

// Coordinator owns the question "what does the cart look like right now".
//
// While unauthenticated the local store is truth. On login the guest items
// are pushed to the server once, then the remote cart is truth until logout
// resets the merge flag.
type Coordinator struct {
	auth     AuthState
	local    *localstore.Store
	client   backend.Client
	cache    *backend.Cache
	notifier Notifier
	logger   *log.Logger
	cancel   func()

	mu      sync.Mutex
	merged  bool
	merging bool
}

// New builds a Coordinator. If cfg.Auth also implements AuthEvents the
// coordinator subscribes to it: login triggers the merge, logout resets the
// merge flag so the next session merges again.
func New(cfg Config) *Coordinator {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	c := &Coordinator{
		auth:     cfg.Auth,
		local:    cfg.Local,
		client:   cfg.Client,
		cache:    backend.NewCache(cfg.Client, ttl),
		notifier: notifier,
		logger:   logger,
	}
	if events, ok := cfg.Auth.(AuthEvents); ok {
		c.cancel = events.Subscribe(c.onAuthChange)
	}
	return c
}

// Close detaches the coordinator from auth events.
func (c *Coordinator) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Coordinator) onAuthChange(authenticated bool) {
	if !authenticated {
		c.mu.Lock()
		c.merged = false
		c.mu.Unlock()
		c.cache.Invalidate()
		c.logger.Printf("logged out, remote cart cache dropped")
		return
	}
	// Merge on the login event itself; a failure here is retried on the
	// next Snapshot evaluation.
	if err := c.ensureMerged(context.Background()); err != nil {
		c.logger.Printf("merge on login failed: %v", err)
	}
}

// Snapshot derives the unified cart view from whichever store owns truth.
func (c *Coordinator) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if !c.auth.IsAuthenticated() {
		items, err := c.local.Items()
		if err != nil {
			return domain.Snapshot{}, err
		}
		return totals.SnapshotFrom(normalize.FromLocal(items), false), nil
	}

	// Retry path for a previously failed merge. The read proceeds either
	// way; merge failures already surfaced through the notifier.
	if err := c.ensureMerged(ctx); err != nil {
		c.logger.Printf("merge retry failed: %v", err)
	}

	resp, err := c.cache.Get(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return totals.SnapshotFrom(normalize.FromRemote(resp.Items), true), nil
}

// ensureMerged pushes the guest cart to the server once per authenticated
// session. Adds are sequential and independent; on any failure the local
// store is kept and the merge flag stays unset, so the next evaluation
// re-issues adds for the whole list. Quantities already pushed before the
// failure are added again on retry.
func (c *Coordinator) ensureMerged(ctx context.Context) error {
	c.mu.Lock()
	if c.merged || c.merging {
		c.mu.Unlock()
		return nil
	}
	c.merging = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.merging = false
		c.mu.Unlock()
	}()

	items, err := c.local.Items()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		c.setMerged()
		return nil
	}

	c.logger.Printf("merging %d guest cart item(s) into remote cart", len(items))
	for _, item := range items {
		resp, err := c.client.AddToCart(ctx, backend.MutationInput{
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			FulfillmentMethod: item.FulfillmentMethod,
		})
		if err != nil {
			c.notifier.Notify(Notification{
				Severity: SeverityError,
				Message:  "Could not move your cart to your account. We'll retry shortly.",
			})
			return fmt.Errorf("merge add product %s: %w", item.ProductID, err)
		}
		c.cache.Put(resp)
	}

	if err := c.local.Clear(); err != nil {
		return fmt.Errorf("clear guest cart after merge: %w", err)
	}
	c.setMerged()
	c.logger.Printf("guest cart merged")
	return nil
}

func (c *Coordinator) setMerged() {
	c.mu.Lock()
	c.merged = true
	c.mu.Unlock()
}
