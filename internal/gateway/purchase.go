package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mundolibro/storefront/internal/domain"
)

// Purchases is the tenant-scoped client for the compras service.
type Purchases struct {
	client   *Client
	tenantID string
}

// NewPurchases creates the purchase gateway for one tenant.
func NewPurchases(client *Client, tenantID string) *Purchases {
	return &Purchases{client: client, tenantID: tenantID}
}

// RegisterPurchaseParams is the input to purchase registration.
// Items carry productId+quantity only; the compras service prices
// server-side and the total is informational.
type RegisterPurchaseParams struct {
	TenantID string                `json:"tenant_id"`
	Username string                `json:"username"`
	Items    []domain.PurchaseItem `json:"items"`
	Total    float64               `json:"total"`
}

// registerResponse matches the body of POST /registrar.
type registerResponse struct {
	PurchaseID string `json:"compra_id"`
}

// Register records a purchase and returns the new purchase ID.
func (p *Purchases) Register(ctx context.Context, params RegisterPurchaseParams) (string, error) {
	const op = "purchases.register"

	params.TenantID = p.tenantID
	var body registerResponse
	if _, err := p.client.doEnveloped(ctx, op, http.MethodPost, "/registrar", nil, params, &body); err != nil {
		return "", err
	}
	return body.PurchaseID, nil
}

// purchaseList matches the (double-encoded) body of GET /listar.
type purchaseList struct {
	Purchases []domain.Purchase `json:"compras"`
}

// ListByUser fetches a user's purchase history.
//
// The compras service keys records by "username#compra_id"; the composite
// is split here so callers only ever see the bare purchase ID.
func (p *Purchases) ListByUser(ctx context.Context, username string) ([]domain.Purchase, error) {
	const op = "purchases.list"

	query := url.Values{
		"tenant_id": {p.tenantID},
		"username":  {username},
	}
	var body purchaseList
	if _, err := p.client.doEnveloped(ctx, op, http.MethodGet, "/listar", query, nil, &body); err != nil {
		return nil, err
	}

	purchases := body.Purchases
	if purchases == nil {
		purchases = []domain.Purchase{}
	}
	for i := range purchases {
		if purchases[i].ID == "" && purchases[i].CompositeKey != "" {
			if _, id, found := strings.Cut(purchases[i].CompositeKey, "#"); found {
				purchases[i].ID = id
			}
		}
	}
	return purchases, nil
}

// TotalSpent sums the totals of a user's purchases.
func (p *Purchases) TotalSpent(ctx context.Context, username string) (float64, error) {
	purchases, err := p.ListByUser(ctx, username)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, purchase := range purchases {
		total += purchase.Total
	}
	return total, nil
}
