package endpoints

import (
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jackzampolin/timetable/internal/config"
)

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	env.services.ConfigStore = config.NewFileStore(path)

	t.Run("unset key falls back to default", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/settings/log.level", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[SettingResponse](t, rec)
		if got.Source != SourceDefault || got.Entry == nil || got.Entry.Value != "info" {
			t.Errorf("got %+v, want default info", got)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		rec := env.do(t, "PUT", "/api/settings/log.level", UpdateSettingRequest{Value: "debug"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		rec = env.do(t, "GET", "/api/settings/"+url.PathEscape("log.level"), nil)
		got := decode[SettingResponse](t, rec)
		if got.Source != SourceFile || got.Entry == nil || got.Entry.Value != "debug" {
			t.Errorf("got %+v, want debug from file", got)
		}
	})

	t.Run("campus batches", func(t *testing.T) {
		rec := env.do(t, "PUT", "/api/settings/campuses.62.default_batches",
			UpdateSettingRequest{Value: []string{"A", "B"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[SettingResponse](t, rec)
		items, _ := got.Entry.Value.([]any)
		if !slices.Equal(items, []any{"A", "B"}) {
			t.Errorf("value = %v, want [A B]", got.Entry.Value)
		}
	})

	t.Run("list", func(t *testing.T) {
		got := decode[SettingsResponse](t, env.do(t, "GET", "/api/settings", nil))
		if got.File != path {
			t.Errorf("file = %q, want %q", got.File, path)
		}
		for _, key := range []string{"log.level", "campuses.62.default_batches"} {
			if _, ok := got.Settings[key]; !ok {
				t.Errorf("settings = %v, want %s", got.Settings, key)
			}
		}
	})

	t.Run("rejected updates", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value any
		}{
			{"unknown campus", "campuses.99.default_batches", []string{"A"}},
			{"unknown campus field", "campuses.128.batches", []string{"A"}},
			{"unknown key", "server.colour", "blue"},
			{"batches not a list", "campuses.62.default_batches", "A,B"},
			{"bad level", "log.level", "loud"},
			{"bad ttl", "sessions.ttl", "soon"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := env.do(t, "PUT", "/api/settings/"+tt.key, UpdateSettingRequest{Value: tt.value})
				if rec.Code != http.StatusBadRequest {
					t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
				}
			})
		}
		got := decode[SettingResponse](t, env.do(t, "GET", "/api/settings/log.level", nil))
		if got.Entry.Value != "debug" {
			t.Errorf("log.level = %v after rejected update, want debug", got.Entry.Value)
		}
	})

	t.Run("reset", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/settings/reset/log.level", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got := decode[SettingResponse](t, rec); got.Entry == nil || got.Entry.Value != "info" {
			t.Errorf("entry = %+v, want info", got.Entry)
		}
	})

	t.Run("reset without default", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/settings/reset/no.such.key", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("unset key without default", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/settings/no.such.key", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/settings/bad..key", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
