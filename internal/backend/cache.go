package backend

import (
	"context"
	"sync"
	"time"
)

// Cache is a stale-time read cache over Client.GetCart. Mutations feed their
// confirmed responses back through Put, replacing the cached cart wholesale;
// Invalidate forces the next read to hit the service.
type Cache struct {
	client Client
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	cart      *CartResponse
	fetchedAt time.Time
}

// NewCache wraps client with a ttl-bounded cart cache.
func NewCache(client Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl, now: time.Now}
}

// Get returns the cached cart while it is fresh, otherwise refetches.
func (c *Cache) Get(ctx context.Context) (*CartResponse, error) {
	c.mu.Lock()
	if c.cart != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		cart := c.cart
		c.mu.Unlock()
		return cart, nil
	}
	c.mu.Unlock()

	cart, err := c.client.GetCart(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cart = cart
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return cart, nil
}

// Put replaces the cached cart with a confirmed server response.
func (c *Cache) Put(cart *CartResponse) {
	if cart == nil {
		return
	}
	c.mu.Lock()
	c.cart = cart
	c.fetchedAt = c.now()
	c.mu.Unlock()
}

// Invalidate drops the cached cart.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cart = nil
	c.mu.Unlock()
}
