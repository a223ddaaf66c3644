package storefront

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/tenant"
)

// GetStoreConfig serves the store's branding so clients can theme
// themselves without hardcoding per-store styles.
func (h *Handler) GetStoreConfig(w http.ResponseWriter, r *http.Request) {
	t := tenant.MustFromContext(r.Context())
	respondJSON(w, http.StatusOK, t)
}

// ListStores serves every registered store.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, tenant.All())
}
