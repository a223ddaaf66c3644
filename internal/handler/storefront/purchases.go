package storefront

import (
	"net/http"
)

// ListPurchases serves the signed-in shopper's order history for this
// store.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, _ := h.sessions.Session()
	purchases, err := deps.Purchases.ListByUser(r.Context(), sess.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

type totalSpentResponse struct {
	Total float64 `json:"total"`
}

// GetTotalSpent sums the signed-in shopper's order history.
func (h *Handler) GetTotalSpent(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, _ := h.sessions.Session()
	total, err := deps.Purchases.TotalSpent(r.Context(), sess.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totalSpentResponse{Total: total})
}
