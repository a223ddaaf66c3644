// Package checkout sequences purchase registration and per-item stock
// synchronization against the backend services.
//
// The flow is deliberately not transactional: the compras service has no
// cancellation call, so once a purchase is registered there is no rollback.
// A stock-decrement failure after registration therefore surfaces as a
// distinct partial-failure state in which the cart is left intact, and the
// caller may retry only the stock-sync step.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/gateway"
)

// State is the orchestrator's checkout lifecycle state.
type State string

const (
	StateIdle            State = "idle"
	StateSubmitting      State = "submitting"
	StateSucceeded       State = "succeeded"
	StatePurchaseFailed  State = "purchase_failed"
	StateStockSyncFailed State = "stock_sync_failed"
)

// PurchaseRegistrar registers purchases. Satisfied by *gateway.Purchases.
type PurchaseRegistrar interface {
	Register(ctx context.Context, params gateway.RegisterPurchaseParams) (string, error)
}

// StockDecrementer syncs stock after a sale. Satisfied by *gateway.Catalog.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, productID string, currentStock, quantity int) error
}

// CartSource is the slice of the cart container checkout needs.
type CartSource interface {
	Cart() domain.Cart
	Clear(ctx context.Context) error
}

// SessionSource is the slice of the session container checkout needs.
type SessionSource interface {
	Session() (domain.Session, bool)
}

// Receipt reports a fully completed checkout.
type Receipt struct {
	PurchaseID string                `json:"compra_id"`
	Items      []domain.PurchaseItem `json:"items"`
	Total      float64               `json:"total"`
}

// PartialFailure records a checkout whose purchase was registered but whose
// stock sync did not complete. It is wrapped in a domain.Error with code
// EPARTIAL; recover it with errors.As when the remaining items matter.
type PartialFailure struct {
	PurchaseID string
	// Synced lists product IDs whose stock was already decremented.
	Synced []string
	// FailedProduct is the item the sync stopped at.
	FailedProduct string
	Err           error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("purchase %s registered but stock sync stopped at %s: %v",
		e.PurchaseID, e.FailedProduct, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}

// pendingSync tracks the items still owed a stock decrement after a
// partial failure.
type pendingSync struct {
	purchaseID string
	receipt    Receipt
	items      []domain.CartLineItem
	next       int
}

// Orchestrator drives the checkout state machine
// Idle -> Submitting -> {Succeeded, PurchaseFailed, StockSyncFailed}.
type Orchestrator struct {
	purchases PurchaseRegistrar
	catalog   StockDecrementer
	cart      CartSource
	sessions  SessionSource
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	pending *pendingSync
}

// NewOrchestrator creates an idle checkout orchestrator.
func NewOrchestrator(purchases PurchaseRegistrar, catalog StockDecrementer, cart CartSource, sessions SessionSource, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		purchases: purchases,
		catalog:   catalog,
		cart:      cart,
		sessions:  sessions,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reset returns a terminal state to Idle so a new checkout may start.
// Resetting while Submitting is rejected; resetting from Idle is a no-op.
// Resetting away from StockSyncFailed abandons the pending stock sync.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSubmitting {
		return domain.Errorf(domain.ECHECKOUT, "checkout.reset", "checkout is in progress")
	}
	if o.state == StateStockSyncFailed {
		o.logger.Warn("abandoning pending stock sync", "purchase_id", o.pending.purchaseID)
	}
	o.state = StateIdle
	o.pending = nil
	return nil
}

// Checkout runs one full checkout: precondition check, purchase
// registration, then a strictly sequential stock decrement per line item,
// and finally clears the cart. Only callable from Idle; a checkout already
// in flight (or an unacknowledged terminal state) is rejected locally
// without touching the network.
func (o *Orchestrator) Checkout(ctx context.Context) (*Receipt, error) {
	const op = "checkout.submit"

	o.mu.Lock()
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return nil, domain.Errorf(domain.ECHECKOUT, op, "checkout already in progress")
	}
	if o.state != StateIdle {
		o.mu.Unlock()
		return nil, domain.Errorf(domain.ECHECKOUT, op, "previous checkout not acknowledged")
	}

	snapshot := o.cart.Cart()
	sess, ok := o.sessions.Session()
	if !ok {
		o.mu.Unlock()
		return nil, domain.Errorf(domain.ECHECKOUT, op, "login is required to check out")
	}
	if len(snapshot.Items) == 0 {
		o.mu.Unlock()
		return nil, domain.Errorf(domain.ECHECKOUT, op, "cart is empty")
	}

	o.state = StateSubmitting
	o.mu.Unlock()

	items := make([]domain.PurchaseItem, len(snapshot.Items))
	for i, it := range snapshot.Items {
		items[i] = domain.PurchaseItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	purchaseID, err := o.purchases.Register(ctx, gateway.RegisterPurchaseParams{
		Username: sess.Username,
		Items:    items,
		Total:    snapshot.Total,
	})
	if err != nil {
		o.setState(StatePurchaseFailed)
		return nil, err
	}

	o.logger.Info("purchase registered",
		"purchase_id", purchaseID, "username", sess.Username, "total", snapshot.Total)

	pending := &pendingSync{
		purchaseID: purchaseID,
		receipt:    Receipt{PurchaseID: purchaseID, Items: items, Total: snapshot.Total},
		items:      snapshot.Items,
	}
	return o.syncStock(ctx, pending)
}

// RetryStockSync retries only the stock-decrement step of a checkout that
// ended in StockSyncFailed, resuming at the item that failed. The purchase
// is not re-registered.
func (o *Orchestrator) RetryStockSync(ctx context.Context) (*Receipt, error) {
	const op = "checkout.retry_stock_sync"

	o.mu.Lock()
	if o.state != StateStockSyncFailed {
		o.mu.Unlock()
		return nil, domain.Errorf(domain.ECHECKOUT, op, "no failed stock sync to retry")
	}
	pending := o.pending
	o.state = StateSubmitting
	o.pending = nil
	o.mu.Unlock()

	return o.syncStock(ctx, pending)
}

// syncStock decrements stock one item at a time, in order. Each call must
// complete before the next starts so server-side updates stay attributable.
// On success the cart is cleared; on failure the cart is left intact, the
// progress is parked and the state moves to StockSyncFailed.
func (o *Orchestrator) syncStock(ctx context.Context, pending *pendingSync) (*Receipt, error) {
	const op = "checkout.stock_sync"

	for ; pending.next < len(pending.items); pending.next++ {
		item := pending.items[pending.next]
		if err := o.catalog.DecrementStock(ctx, item.ProductID, item.Stock, item.Quantity); err != nil {
			synced := make([]string, 0, pending.next)
			for _, done := range pending.items[:pending.next] {
				synced = append(synced, done.ProductID)
			}

			o.mu.Lock()
			o.state = StateStockSyncFailed
			o.pending = pending
			o.mu.Unlock()

			o.logger.Error("stock sync failed after purchase registration",
				"purchase_id", pending.purchaseID, "product_id", item.ProductID, "error", err)

			return nil, &domain.Error{
				Code:    domain.EPARTIAL,
				Op:      op,
				Message: "purchase was recorded but stock synchronization did not complete",
				Err: &PartialFailure{
					PurchaseID:    pending.purchaseID,
					Synced:        synced,
					FailedProduct: item.ProductID,
					Err:           err,
				},
			}
		}
	}

	// The purchase is fully settled; only now may the cart be cleared.
	if err := o.cart.Clear(ctx); err != nil {
		o.logger.Warn("failed to clear cart after checkout", "purchase_id", pending.purchaseID, "error", err)
	}

	o.setState(StateSucceeded)
	receipt := pending.receipt
	return &receipt, nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}
