package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// ErrDuplicateRoute is returned when two endpoints claim the same route.
var ErrDuplicateRoute = errors.New("duplicate route")

// Registry holds all registered endpoints, keyed by "METHOD /path".
type Registry struct {
	endpoints []Endpoint
	routes    map[string]bool
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]bool)}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) error {
	pattern := Pattern(ep)
	if r.routes[pattern] {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, pattern)
	}
	r.routes[pattern] = true
	r.endpoints = append(r.endpoints, ep)
	return nil
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// initMiddleware wraps handlers that need the server's services.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		_, _, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(Pattern(ep), handler)
	}
}

// Routes returns the registered "METHOD /path" patterns in sorted order.
func (r *Registry) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for pattern := range r.routes {
		out = append(out, pattern)
	}
	slices.Sort(out)
	return out
}
