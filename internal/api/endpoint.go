package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command.
// The request and response types an endpoint declares are shared by its
// handler and its command, so both sides always agree on the wire format.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit returns true if this endpoint needs the session store
	// and profile registry to be ready.
	RequiresInit() bool

	// Command returns a Cobra command that calls this endpoint via HTTP,
	// or nil for routes with no CLI form.
	// getServerURL is called at runtime to get the server URL (deferred evaluation).
	Command(getServerURL func() string) *cobra.Command
}

// Pattern returns the ServeMux pattern of an endpoint, e.g. "GET /health".
func Pattern(ep Endpoint) string {
	method, path, _ := ep.Route()
	return method + " " + path
}
