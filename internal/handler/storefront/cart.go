package storefront

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
)

// GetCart serves the current cart snapshot.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deps.Cart.Cart())
}

type addToCartRequest struct {
	ProductID string `json:"libro_id"`
	Quantity  int    `json:"cantidad"`
}

// AddToCart looks the product up in the catalog and merges it into the
// cart. The catalog lookup pins the stock snapshot the cart clamps
// against.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.ProductID == "" {
		respondError(w, r, &domain.Error{
			Code:    domain.EINVALID,
			Message: "A product is required.",
			Op:      "storefront.AddToCart",
		})
		return
	}

	product, err := deps.Catalog.Find(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := deps.Cart.AddItem(r.Context(), *product, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type updateQuantityRequest struct {
	Quantity int `json:"cantidad"`
}

// UpdateCartItem sets the quantity for a line item. Zero or negative
// removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := deps.Cart.UpdateQuantity(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// RemoveCartItem drops a line item. Removing an absent item succeeds.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := deps.Cart.RemoveItem(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := deps.Cart.Clear(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deps.Cart.Cart())
}
