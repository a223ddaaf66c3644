package domain

// Wire types shared by the gateways and the state containers.
//
// Field names follow the backend microservice contracts (Spanish keys such
// as libro_id, titulo, cantidad). Do not rename the JSON tags: the four
// services are owned by separate teams and this module must match their
// payloads byte-for-byte.

// Product is a catalog entry as returned by the productos service.
type Product struct {
	ID          string  `json:"libro_id"`
	Title       string  `json:"titulo"`
	Author      string  `json:"autor"`
	Genre       string  `json:"genero,omitempty"`
	Description string  `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	CoverURL    string  `json:"cover,omitempty"`
}

// CartLineItem is one product entry in the cart.
//
// Stock is a snapshot of the product's availability, taken when the item
// is added and refreshed on every re-add of the same product. Quantity
// updates clamp against the stored snapshot.
type CartLineItem struct {
	ProductID string  `json:"libro_id"`
	Title     string  `json:"titulo"`
	Author    string  `json:"autor"`
	UnitPrice float64 `json:"precio"`
	Stock     int     `json:"stock"`
	CoverURL  string  `json:"cover,omitempty"`
	Quantity  int     `json:"cantidad"`
}

// Subtotal returns the line total for this item.
func (it CartLineItem) Subtotal() float64 {
	return it.UnitPrice * float64(it.Quantity)
}

// Cart aggregates line items with derived totals.
//
// Total and ItemCount are derived values, recomputed from Items after every
// mutation. They are never settable independently.
type Cart struct {
	Items     []CartLineItem `json:"items"`
	Total     float64        `json:"total"`
	ItemCount int            `json:"itemCount"`
}

// EmptyCart returns the zero cart with a non-nil item slice so JSON
// encoding emits [] instead of null.
func EmptyCart() Cart {
	return Cart{Items: []CartLineItem{}}
}

// Session is the authenticated identity for one storefront profile.
// Token is persisted under its own key, separate from the identity.
type Session struct {
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
	Token    string `json:"-"`
}

// PurchaseItem is the productId+quantity pair sent at purchase registration.
// Prices are deliberately omitted: the compras service prices server-side.
type PurchaseItem struct {
	ProductID string `json:"libro_id"`
	Quantity  int    `json:"cantidad"`
}

// Purchase is a recorded purchase as returned by the compras service.
// The service keys records by "username#compra_id"; the gateway splits that
// composite key and fills ID before handing records to callers.
type Purchase struct {
	ID           string         `json:"compra_id,omitempty"`
	CompositeKey string         `json:"username#compra_id,omitempty"`
	TenantID     string         `json:"tenant_id"`
	Username     string         `json:"username"`
	Items        []PurchaseItem `json:"items"`
	Total        float64        `json:"total"`
	Timestamp    string         `json:"fecha,omitempty"`
}

// Review is a book review as exchanged with the reviews service.
type Review struct {
	ID       string `json:"id,omitempty"`
	BookID   string `json:"id_book"`
	UserID   int    `json:"id_user"`
	Username string `json:"username"`
	Content  string `json:"content"`
	Rating   int    `json:"rating"`
	Date     string `json:"date"`
}
