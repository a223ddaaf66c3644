package middleware

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/tenant"
)

// ResolveTenant resolves the {tenant} path segment against the store
// registry and places the tenant on the request context. Unknown
// tenants get a 404 before any handler runs.
func ResolveTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("tenant")
		t, err := tenant.ByID(id)
		if err != nil {
			respondWithError(w, &domain.Error{
				Code:    domain.ENOTFOUND,
				Message: "Unknown store.",
				Op:      "middleware.ResolveTenant",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(tenant.NewContext(r.Context(), t)))
	})
}
