package storefront

import (
	"errors"
	"net/http"

	"github.com/mundolibro/storefront/internal/checkout"
	"github.com/mundolibro/storefront/internal/domain"
)

type checkoutStateResponse struct {
	State checkout.State `json:"state"`
}

// GetCheckoutState reports where the checkout machine currently sits.
func (h *Handler) GetCheckoutState(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutStateResponse{State: deps.Checkout.State()})
}

type partialFailureResponse struct {
	Error         string   `json:"error"`
	Code          string   `json:"code"`
	PurchaseID    string   `json:"compra_id"`
	Synced        []string `json:"synced"`
	FailedProduct string   `json:"failed_product"`
}

// Checkout submits the cart as a purchase. A partial failure keeps the
// purchase id and sync progress in the response so clients can offer a
// retry.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	receipt, err := deps.Checkout.Checkout(r.Context())
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

// RetryStockSync resumes the stock sync of a partially failed
// checkout at the item it stopped on.
func (h *Handler) RetryStockSync(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	receipt, err := deps.Checkout.RetryStockSync(r.Context())
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

// ResetCheckout acknowledges a terminal checkout state and returns the
// machine to idle.
func (h *Handler) ResetCheckout(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := deps.Checkout.Reset(); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutStateResponse{State: deps.Checkout.State()})
}

func (h *Handler) respondCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var partial *checkout.PartialFailure
	if errors.As(err, &partial) {
		respondJSON(w, errorStatus(domain.EPARTIAL), partialFailureResponse{
			Error:         domain.ErrorMessage(err),
			Code:          domain.EPARTIAL,
			PurchaseID:    partial.PurchaseID,
			Synced:        partial.Synced,
			FailedProduct: partial.FailedProduct,
		})
		return
	}
	respondError(w, r, err)
}
