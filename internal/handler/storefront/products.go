package storefront

import (
	"net/http"
	"strconv"

	"github.com/mundolibro/storefront/internal/domain"
)

// ListProducts serves the store catalog. With ?q= it filters by the
// search term; ?recent=N returns the N newest arrivals; ?popular=N the
// N best-stocked titles.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx := r.Context()
	query := r.URL.Query()

	var products []domain.Product
	switch {
	case query.Get("q") != "":
		products, err = deps.Catalog.Search(ctx, query.Get("q"))
	case query.Get("recent") != "":
		products, err = deps.Catalog.Recent(ctx, atoiOrZero(query.Get("recent")))
	case query.Get("popular") != "":
		products, err = deps.Catalog.Popular(ctx, atoiOrZero(query.Get("popular")))
	default:
		products, err = deps.Catalog.List(ctx)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// GetProduct serves a single product by its catalog ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := deps.Catalog.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}
