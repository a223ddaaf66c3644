package router

import (
	"net/http"
	"slices"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Router wraps http.ServeMux with middleware chaining. Route-level
// middleware runs after the mux has matched a pattern, so handlers and
// middleware alike can read path values from the request.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
}

func New() *Router {
	return &Router{mux: http.NewServeMux()}
}

// Use appends middleware applied to every route registered afterwards.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Handle registers a handler for the given method and pattern,
// wrapped in the router's middleware chain plus any route-specific
// middleware.
func (r *Router) Handle(method, pattern string, h http.Handler, mw ...Middleware) {
	r.mux.Handle(method+" "+pattern, r.wrap(h, mw))
}

func (r *Router) Get(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, pattern, h, mw...)
}

func (r *Router) Post(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, pattern, h, mw...)
}

func (r *Router) Delete(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, pattern, h, mw...)
}

func (r *Router) wrap(h http.Handler, route []Middleware) http.Handler {
	chain := make([]Middleware, 0, len(r.middleware)+len(route))
	chain = append(chain, r.middleware...)
	chain = append(chain, route...)
	slices.Reverse(chain)
	for _, mw := range chain {
		h = mw(h)
	}
	return h
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
