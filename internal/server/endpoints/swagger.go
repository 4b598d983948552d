package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/docs"
	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/svcctx"
)

// SwaggerEndpoint serves the OpenAPI document. The document is built into
// the binary; SpecPath points at a regenerated copy to serve instead.
type SwaggerEndpoint struct {
	SpecPath string
}

func (e *SwaggerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger.json", e.handler
}

func (e *SwaggerEndpoint) RequiresInit() bool { return false }

// document returns the OpenAPI document with host set to the address the
// request came in on, so the UI calls back to this server.
func (e *SwaggerEndpoint) document(r *http.Request) (map[string]any, error) {
	data := docs.SwaggerJSON
	if e.SpecPath != "" {
		b, err := os.ReadFile(e.SpecPath)
		if err != nil {
			svcctx.LoggerFrom(r.Context()).Warn("using built-in OpenAPI document", "path", e.SpecPath, "error", err)
		} else {
			data = b
		}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	if r.Host != "" {
		doc["host"] = r.Host
	}
	return doc, nil
}

func (e *SwaggerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	doc, err := e.document(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, doc)
}

// Operation is one method and path listed in the OpenAPI document.
type Operation struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// Operations lists the operations of an OpenAPI document ordered by path.
func Operations(doc map[string]any) []Operation {
	paths, _ := doc["paths"].(map[string]any)
	var ops []Operation
	for path, item := range paths {
		methods, _ := item.(map[string]any)
		for method, raw := range methods {
			op, _ := raw.(map[string]any)
			summary, _ := op["summary"].(string)
			ops = append(ops, Operation{Method: strings.ToUpper(method), Path: path, Summary: summary})
		}
	}
	slices.SortFunc(ops, func(a, b Operation) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return ops
}

func (e *SwaggerEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	var list bool
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Fetch the OpenAPI document from the server",
		Long: `Fetch the OpenAPI document from the server.

Examples:
  timetable api swagger --list        # Method, path and summary per operation
  timetable api swagger --file api.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(getServerURL())
			var doc map[string]any
			if err := client.Get(cmd.Context(), "/swagger.json", &doc); err != nil {
				return err
			}
			if list {
				return api.Output(Operations(doc))
			}
			if outputFile != "" {
				return api.OutputToFile(doc, outputFile)
			}
			return api.Output(doc)
		},
	}
	cmd.Flags().StringVar(&outputFile, "file", "", "Write the document to a file")
	cmd.Flags().BoolVar(&list, "list", false, "List operations instead of the full document")
	return cmd
}

// swaggerUIPage loads Swagger UI from a CDN and points it at /swagger.json.
const swaggerUIPage = `<!DOCTYPE html>
<html>
<head>
  <title>Timetable API</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: '/swagger.json', dom_id: '#swagger-ui'});
  </script>
</body>
</html>`

// SwaggerUIEndpoint serves Swagger UI.
type SwaggerUIEndpoint struct{}

func (e *SwaggerUIEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger", e.handler
}

func (e *SwaggerUIEndpoint) RequiresInit() bool { return false }

func (e *SwaggerUIEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(swaggerUIPage))
}

func (e *SwaggerUIEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:    "swagger-ui",
		Hidden: true,
		Short:  "Print the Swagger UI address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("Open in browser:", getServerURL()+"/swagger")
			return nil
		},
	}
}
