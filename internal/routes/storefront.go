// Package routes wires handlers onto the router. Route tables live
// here so the full HTTP surface is readable in one place.
package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mundolibro/storefront/internal/handler/storefront"
	"github.com/mundolibro/storefront/internal/middleware"
	"github.com/mundolibro/storefront/internal/router"
	"github.com/mundolibro/storefront/internal/session"
)

// StorefrontDeps carries everything the storefront routes need.
type StorefrontDeps struct {
	Handler  *storefront.Handler
	Sessions *session.Container
	Registry *prometheus.Registry
}

// RegisterStorefrontRoutes mounts the shopper-facing API. Store routes
// live under a /{tenant} prefix; the tenant middleware rejects unknown
// stores before handlers run.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	h := deps.Handler
	requireSession := middleware.RequireSession(deps.Sessions)
	forStore := middleware.ResolveTenant

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle(http.MethodGet, "/metrics",
		promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	r.Get("/stores", h.ListStores)
	r.Get("/{tenant}/config", h.GetStoreConfig, forStore)

	// Catalog
	r.Get("/{tenant}/products", h.ListProducts, forStore)
	r.Get("/{tenant}/products/{id}", h.GetProduct, forStore)

	// Reviews
	r.Get("/{tenant}/products/{id}/reviews", h.ListReviews, forStore)
	r.Post("/{tenant}/products/{id}/reviews", h.AddReview, forStore, requireSession)

	// Account
	r.Post("/{tenant}/login", h.Login, forStore)
	r.Post("/{tenant}/register", h.Register, forStore)
	r.Post("/{tenant}/logout", h.Logout, forStore)
	r.Get("/{tenant}/session", h.GetSession, forStore)

	// Cart. Browsing shoppers can fill a cart before signing in.
	r.Get("/{tenant}/cart", h.GetCart, forStore)
	r.Post("/{tenant}/cart/items", h.AddToCart, forStore)
	r.Post("/{tenant}/cart/items/{id}", h.UpdateCartItem, forStore)
	r.Delete("/{tenant}/cart/items/{id}", h.RemoveCartItem, forStore)
	r.Delete("/{tenant}/cart", h.ClearCart, forStore)

	// Checkout
	r.Get("/{tenant}/checkout", h.GetCheckoutState, forStore)
	r.Post("/{tenant}/checkout", h.Checkout, forStore, requireSession)
	r.Post("/{tenant}/checkout/retry", h.RetryStockSync, forStore, requireSession)
	r.Post("/{tenant}/checkout/reset", h.ResetCheckout, forStore)

	// Order history
	r.Get("/{tenant}/purchases", h.ListPurchases, forStore, requireSession)
	r.Get("/{tenant}/purchases/total", h.GetTotalSpent, forStore, requireSession)
}
