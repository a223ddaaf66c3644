// Package storefront holds the JSON handlers for the shopper-facing
// API. Every route is mounted under a store prefix, and handlers pull
// the per-store dependencies out of the registry using the tenant the
// middleware resolved.
package storefront

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/cart"
	"github.com/mundolibro/storefront/internal/checkout"
	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/gateway"
	"github.com/mundolibro/storefront/internal/session"
	"github.com/mundolibro/storefront/internal/tenant"
)

// TenantDeps bundles the per-store dependencies: gateways scoped to
// the store's catalog, the store's cart container, and its checkout
// orchestrator.
type TenantDeps struct {
	Tenant    tenant.Tenant
	Catalog   *gateway.Catalog
	Purchases *gateway.Purchases
	Reviews   *gateway.Reviews
	Cart      *cart.Container
	Checkout  *checkout.Orchestrator
}

// Registry maps tenant IDs to their dependencies.
type Registry map[string]*TenantDeps

// Handler serves the storefront API. The session container is shared
// across stores; everything else is tenant-scoped.
type Handler struct {
	registry Registry
	sessions *session.Container
}

func NewHandler(registry Registry, sessions *session.Container) *Handler {
	return &Handler{registry: registry, sessions: sessions}
}

func (h *Handler) deps(r *http.Request) (*TenantDeps, error) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		return nil, &domain.Error{
			Code:    domain.EINTERNAL,
			Message: "Something went wrong.",
			Op:      "storefront.deps",
			Err:     tenant.ErrNoTenant,
		}
	}
	deps, ok := h.registry[t.ID]
	if !ok {
		return nil, &domain.Error{
			Code:    domain.ENOTFOUND,
			Message: "Unknown store.",
			Op:      "storefront.deps",
		}
	}
	return deps, nil
}
