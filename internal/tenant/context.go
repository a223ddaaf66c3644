package tenant

import (
	"context"
)

type contextKey string

const tenantContextKey contextKey = "tenant"

// NewContext returns a new context with the tenant attached.
func NewContext(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, t)
}

// FromContext extracts the tenant from the context.
// The second return value is false if no tenant is present.
func FromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantContextKey).(Tenant)
	return t, ok
}

// MustFromContext extracts the tenant from the context.
// Panics if no tenant is present. Use only when tenant middleware
// has definitely run (e.g., in handlers behind ResolveTenant).
func MustFromContext(ctx context.Context) Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant.MustFromContext: no tenant in context")
	}
	return t
}

// IDFromContext returns the tenant ID from context.
// Returns the empty string if no tenant is present.
func IDFromContext(ctx context.Context) string {
	t, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return t.ID
}
