package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
)

type fakeEndpoint struct {
	method, path string
	init         bool
}

func (e *fakeEndpoint) Route() (string, string, http.HandlerFunc) {
	return e.method, e.path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}
}

func (e *fakeEndpoint) RequiresInit() bool { return e.init }

func (e *fakeEndpoint) Command(func() string) *cobra.Command { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeEndpoint{method: "GET", path: "/b"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&fakeEndpoint{method: "POST", path: "/a", init: true}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("duplicate route", func(t *testing.T) {
		err := r.Register(&fakeEndpoint{method: "GET", path: "/b"})
		if !errors.Is(err, ErrDuplicateRoute) {
			t.Errorf("Register() error = %v, want ErrDuplicateRoute", err)
		}
	})

	t.Run("routes sorted", func(t *testing.T) {
		got := r.Routes()
		if len(got) != 2 || got[0] != "GET /b" || got[1] != "POST /a" {
			t.Errorf("Routes() = %v", got)
		}
	})

	t.Run("init middleware wraps only init routes", func(t *testing.T) {
		mux := http.NewServeMux()
		blocked := func(http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}
		r.RegisterRoutes(mux, blocked)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/b", nil))
		if rec.Code != http.StatusTeapot {
			t.Errorf("GET /b = %d, want 418", rec.Code)
		}
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/a", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("POST /a = %d, want 503", rec.Code)
		}
	})
}
