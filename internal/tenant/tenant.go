// Package tenant defines the three branded sub-stores and resolves them
// from request paths.
//
// The upstream storefront re-derived store branding in every component with
// string-prefix checks against the URL. Here the mapping is a static
// registry resolved once per request by middleware; everything downstream
// reads the resolved tenant from the context.
package tenant

// Kind distinguishes the one tenant whose business semantics differ:
// KidVerse Reads lends books instead of selling them.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindLoan     Kind = "loan"
)

// Theme carries the per-store presentation settings the SPA renders.
type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	Gradient     string `json:"gradient"`
	BorderColor  string `json:"borderColor"`
	ButtonColor  string `json:"buttonColor"`
	TextColor    string `json:"textColor"`
}

// Tenant is one branded sub-store sharing the MundoLibro backend.
type Tenant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PathPrefix string `json:"pathPrefix"`
	Kind       Kind   `json:"kind"`
	Theme      Theme  `json:"theme"`
}

// registry is the static tenant configuration. Tenants are provisioned at
// build time; there is no runtime tenant management in this system.
var registry = map[string]Tenant{
	"novabooks": {
		ID:         "novabooks",
		Name:       "NovaBooks",
		PathPrefix: "/novabooks",
		Kind:       KindPurchase,
		Theme: Theme{
			PrimaryColor: "blue",
			Gradient:     "from-blue-50 to-indigo-50",
			BorderColor:  "border-blue-200",
			ButtonColor:  "bg-blue-600 hover:bg-blue-700",
			TextColor:    "text-blue-800",
		},
	},
	"techshelf": {
		ID:         "techshelf",
		Name:       "TechShelf",
		PathPrefix: "/techshelf",
		Kind:       KindPurchase,
		Theme: Theme{
			PrimaryColor: "green",
			Gradient:     "from-green-50 to-teal-50",
			BorderColor:  "border-green-200",
			ButtonColor:  "bg-green-600 hover:bg-green-700",
			TextColor:    "text-green-800",
		},
	},
	"kidverse": {
		ID:         "kidverse",
		Name:       "KidVerse Reads",
		PathPrefix: "/kidverse",
		Kind:       KindLoan,
		Theme: Theme{
			PrimaryColor: "orange",
			Gradient:     "from-orange-50 to-yellow-50",
			BorderColor:  "border-orange-200",
			ButtonColor:  "bg-orange-500 hover:bg-orange-600",
			TextColor:    "text-orange-800",
		},
	},
}

// ByID resolves a tenant by its identifier.
func ByID(id string) (Tenant, error) {
	t, ok := registry[id]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return t, nil
}

// All returns every registered tenant. The order is unspecified.
func All() []Tenant {
	out := make([]Tenant, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	return out
}

// IDs returns the registered tenant identifiers. The order is unspecified.
func IDs() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	return out
}
