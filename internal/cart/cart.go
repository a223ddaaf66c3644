// Package cart owns the shopping cart state for one tenant store.
//
// The container is the single writer of its persisted entry: every mutation
// transforms the in-memory cart, recomputes the derived totals from scratch
// and persists before returning, so readers never observe a half-applied
// mutation and a reload always resumes from the last completed one.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/kvstore"
)

// Container holds the cart of one tenant store and persists it under
// "cart:{tenantID}". Carts never bleed across tenants.
type Container struct {
	store  kvstore.Store
	key    string
	logger *slog.Logger

	mu   sync.Mutex
	cart domain.Cart
}

// Key returns the persisted-store key for a tenant's cart.
func Key(tenantID string) string {
	return "cart:" + tenantID
}

// NewContainer creates the cart container for one tenant and rehydrates it
// from the persisted store. A missing, unreadable or structurally invalid
// persisted cart starts the container empty; corruption is recovered
// locally (the bad entry is removed), never surfaced to the caller.
func NewContainer(ctx context.Context, store kvstore.Store, tenantID string, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		store:  store,
		key:    Key(tenantID),
		logger: logger,
		cart:   domain.EmptyCart(),
	}
	c.rehydrate(ctx)
	return c
}

func (c *Container) rehydrate(ctx context.Context) {
	raw, ok, err := c.store.Read(ctx, c.key)
	if err != nil {
		c.logger.Warn("failed to read persisted cart, starting empty", "key", c.key, "error", err)
		return
	}
	if !ok {
		return
	}

	var persisted domain.Cart
	if err := json.Unmarshal(raw, &persisted); err != nil || !structurallyValid(persisted) {
		c.logger.Warn("discarding corrupt persisted cart", "key", c.key)
		if err := c.store.Remove(ctx, c.key); err != nil {
			c.logger.Warn("failed to remove corrupt cart entry", "key", c.key, "error", err)
		}
		return
	}

	if persisted.Items == nil {
		persisted.Items = []domain.CartLineItem{}
	}
	// Totals are derived; never trust the persisted copy of them.
	recompute(&persisted)
	c.cart = persisted
}

// structurallyValid checks the invariants a persisted cart must satisfy
// before it is adopted.
func structurallyValid(c domain.Cart) bool {
	seen := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID == "" || seen[it.ProductID] {
			return false
		}
		seen[it.ProductID] = true
		if it.Quantity < 1 || it.Stock < 0 || it.Quantity > it.Stock || it.UnitPrice < 0 {
			return false
		}
	}
	return true
}

func recompute(c *domain.Cart) {
	var total float64
	var count int
	for _, it := range c.Items {
		total += it.Subtotal()
		count += it.Quantity
	}
	c.Total = total
	c.ItemCount = count
}

// AddItem adds quantity units of product to the cart, merging with an
// existing line for the same product. The merge adopts the passed
// product's availability as the new stock snapshot and clamps the
// combined quantity to it; requesting more than is in stock is not an
// error, the excess is silently dropped. A product with zero stock is
// never retained as a line: a fresh add is a no-op and a merge drops
// the existing line.
func (c *Container) AddItem(ctx context.Context, product domain.Product, quantity int) (domain.Cart, error) {
	const op = "cart.add"

	if quantity < 1 {
		return c.Cart(), domain.Errorf(domain.EINVALID, op, "quantity must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(product.ID); idx >= 0 {
		item := &c.cart.Items[idx]
		item.Stock = product.Stock
		item.Quantity = clamp(item.Quantity+quantity, item.Stock)
		if item.Quantity == 0 {
			c.cart.Items = append(c.cart.Items[:idx], c.cart.Items[idx+1:]...)
		}
	} else {
		clamped := clamp(quantity, product.Stock)
		if clamped > 0 {
			c.cart.Items = append(c.cart.Items, domain.CartLineItem{
				ProductID: product.ID,
				Title:     product.Title,
				Author:    product.Author,
				UnitPrice: product.Price,
				Stock:     product.Stock,
				CoverURL:  product.CoverURL,
				Quantity:  clamped,
			})
		}
	}

	recompute(&c.cart)
	return c.snapshot(), c.persist(ctx, op)
}

// RemoveItem deletes the line item for productID. Removing an absent item
// is a no-op, not an error.
func (c *Container) RemoveItem(ctx context.Context, productID string) (domain.Cart, error) {
	const op = "cart.remove"

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(productID)
	if idx < 0 {
		return c.snapshot(), nil
	}

	c.cart.Items = append(c.cart.Items[:idx], c.cart.Items[idx+1:]...)
	recompute(&c.cart)
	return c.snapshot(), c.persist(ctx, op)
}

// UpdateQuantity sets the quantity of an existing line item. A quantity of
// zero or less removes the item. The new quantity is clamped to the stock
// snapshot recorded when the item was added. Absent productID is a no-op.
func (c *Container) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	const op = "cart.update"

	if quantity <= 0 {
		return c.RemoveItem(ctx, productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(productID)
	if idx < 0 {
		return c.snapshot(), nil
	}

	item := &c.cart.Items[idx]
	item.Quantity = clamp(quantity, item.Stock)
	recompute(&c.cart)
	return c.snapshot(), c.persist(ctx, op)
}

// Clear resets the cart to empty and persists the empty state.
func (c *Container) Clear(ctx context.Context) error {
	const op = "cart.clear"

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cart = domain.EmptyCart()
	return c.persist(ctx, op)
}

// Cart returns a copy of the current cart.
func (c *Container) Cart() domain.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Item returns the line item for productID, if present.
func (c *Container) Item(productID string) (domain.CartLineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(productID); idx >= 0 {
		return c.cart.Items[idx], true
	}
	return domain.CartLineItem{}, false
}

// Contains reports whether productID has a line item in the cart.
func (c *Container) Contains(productID string) bool {
	_, ok := c.Item(productID)
	return ok
}

// indexOf must be called with the mutex held.
func (c *Container) indexOf(productID string) int {
	for i, it := range c.cart.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// snapshot must be called with the mutex held.
func (c *Container) snapshot() domain.Cart {
	out := c.cart
	out.Items = make([]domain.CartLineItem, len(c.cart.Items))
	copy(out.Items, c.cart.Items)
	return out
}

// persist must be called with the mutex held.
func (c *Container) persist(ctx context.Context, op string) error {
	raw, err := json.Marshal(c.cart)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, op, "failed to encode cart")
	}
	if err := c.store.Write(ctx, c.key, raw); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, op, "failed to persist cart")
	}
	return nil
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
