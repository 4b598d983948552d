package endpoints

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/timetable/internal/testutil"
)

func TestSwaggerDocument(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/swagger.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	doc := decode[map[string]any](t, rec)

	if doc["host"] != "example.com" {
		t.Errorf("host = %v, want the request host", doc["host"])
	}

	listed := map[string]bool{}
	for _, op := range Operations(doc) {
		listed[op.Method+" "+op.Path] = true
	}
	if !listed["POST /api/timetable"] {
		t.Fatalf("POST /api/timetable missing from %v", listed)
	}

	// Every served route is documented.
	for _, ep := range All(Config{}) {
		method, path, _ := ep.Route()
		path = strings.ReplaceAll(path, "...}", "}")
		if !listed[method+" "+path] {
			t.Errorf("%s %s is served but not documented", method, path)
		}
	}
}

func TestSwaggerSpecPath(t *testing.T) {
	t.Run("override file", func(t *testing.T) {
		path := testutil.WriteFile(t, t.TempDir(), "swagger.json",
			`{"swagger": "2.0", "paths": {"/only": {"get": {"summary": "Only"}}}}`)
		ep := &SwaggerEndpoint{SpecPath: path}
		rec := httptest.NewRecorder()
		ep.handler(rec, httptest.NewRequest("GET", "/swagger.json", nil))

		ops := Operations(decode[map[string]any](t, rec))
		if len(ops) != 1 || ops[0] != (Operation{Method: "GET", Path: "/only", Summary: "Only"}) {
			t.Errorf("operations = %+v, want GET /only", ops)
		}
	})

	t.Run("missing file falls back to built-in", func(t *testing.T) {
		ep := &SwaggerEndpoint{SpecPath: filepath.Join(t.TempDir(), "missing.json")}
		rec := httptest.NewRecorder()
		ep.handler(rec, httptest.NewRequest("GET", "/swagger.json", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if len(Operations(decode[map[string]any](t, rec))) < 10 {
			t.Errorf("expected the built-in document")
		}
	})
}

func TestOperationsOrder(t *testing.T) {
	doc := map[string]any{"paths": map[string]any{
		"/b": map[string]any{"post": map[string]any{}, "get": map[string]any{}},
		"/a": map[string]any{"delete": map[string]any{}},
	}}
	var got []string
	for _, op := range Operations(doc) {
		got = append(got, op.Method+" "+op.Path)
	}
	if want := "DELETE /a,GET /b,POST /b"; strings.Join(got, ",") != want {
		t.Errorf("operations = %v, want %s", got, want)
	}
}

func TestSwaggerUI(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/swagger", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "url: '/swagger.json'") {
		t.Errorf("page does not load /swagger.json")
	}
}
