package gateway

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/mundolibro/storefront/internal/domain"
)

// Catalog is the tenant-scoped client for the productos service.
type Catalog struct {
	client   *Client
	tenantID string
}

// NewCatalog creates the catalog gateway for one tenant.
func NewCatalog(client *Client, tenantID string) *Catalog {
	return &Catalog{client: client, tenantID: tenantID}
}

// productList matches the (double-encoded) body of GET /listar.
type productList struct {
	Products []domain.Product `json:"productos"`
}

// productWrapper matches the (double-encoded) body of POST /modificar.
type productWrapper struct {
	Product domain.Product `json:"producto"`
}

// List fetches the full tenant catalog.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	const op = "catalog.list"

	query := url.Values{"tenant_id": {c.tenantID}}
	var body productList
	if _, err := c.client.doEnveloped(ctx, op, http.MethodGet, "/listar", query, nil, &body); err != nil {
		return nil, err
	}

	if body.Products == nil {
		body.Products = []domain.Product{}
	}
	return body.Products, nil
}

// Find fetches one product by ID.
func (c *Catalog) Find(ctx context.Context, productID string) (*domain.Product, error) {
	const op = "catalog.find"

	query := url.Values{
		"tenant_id": {c.tenantID},
		"libro_id":  {productID},
	}
	var product domain.Product
	if _, err := c.client.doEnveloped(ctx, op, http.MethodGet, "/buscar", query, nil, &product); err != nil {
		return nil, err
	}

	if product.ID == "" {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "product %s not found", productID)
	}
	return &product, nil
}

// ModifyParams updates a product's price and/or stock.
// Nil fields are omitted from the request and left unchanged server-side.
type ModifyParams struct {
	ProductID string   `json:"libro_id"`
	TenantID  string   `json:"tenant_id"`
	Price     *float64 `json:"precio,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
}

// Modify updates a product on the productos service and returns the
// updated record.
func (c *Catalog) Modify(ctx context.Context, params ModifyParams) (*domain.Product, error) {
	const op = "catalog.modify"

	params.TenantID = c.tenantID
	var body productWrapper
	if _, err := c.client.doEnveloped(ctx, op, http.MethodPost, "/modificar", nil, params, &body); err != nil {
		return nil, err
	}
	return &body.Product, nil
}

// DecrementStock sets a product's stock to its current value minus the
// purchased quantity. Used by checkout after purchase registration.
func (c *Catalog) DecrementStock(ctx context.Context, productID string, currentStock, quantity int) error {
	newStock := currentStock - quantity
	if newStock < 0 {
		newStock = 0
	}
	_, err := c.Modify(ctx, ModifyParams{ProductID: productID, Stock: &newStock})
	return err
}

// Search filters the tenant catalog by case-insensitive substring match
// against title, author and description.
//
// The productos listing endpoint has no query parameter, so search fetches
// the full catalog and filters in memory. O(n) per call; fine while tenant
// catalogs stay small.
func (c *Catalog) Search(ctx context.Context, term string) ([]domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return products, nil
	}

	matched := []domain.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Author), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Recent returns the most recently added products, newest last in the
// listing order, capped at n.
func (c *Catalog) Recent(ctx context.Context, n int) ([]domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n >= len(products) {
		return products, nil
	}
	return products[len(products)-n:], nil
}

// Popular returns the products with the most units on hand, capped at n.
// Stock doubles as the popularity signal upstream.
func (c *Catalog) Popular(ctx context.Context, n int) ([]domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Stock > products[j].Stock
	})
	if n > 0 && n < len(products) {
		products = products[:n]
	}
	return products, nil
}
