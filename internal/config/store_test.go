package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.yaml")
	store := NewFileStore(path)

	t.Run("missing file reads empty", func(t *testing.T) {
		entry, err := store.Get(ctx, "server.port")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if entry != nil {
			t.Errorf("Get() = %+v, want nil", entry)
		}
	})

	t.Run("set and get nested", func(t *testing.T) {
		if err := store.Set(ctx, "server.port", "9090", ""); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := store.Set(ctx, "campuses.62.default_batches", []string{"A", "B"}, ""); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		entry, err := store.Get(ctx, "server.port")
		if err != nil || entry == nil {
			t.Fatalf("Get() = %v, %v", entry, err)
		}
		if entry.Value != "9090" {
			t.Errorf("Value = %v, want 9090", entry.Value)
		}
		if entry.Description == "" {
			t.Error("known key should carry its default description")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "port:") {
			t.Errorf("file = %s, want nested server.port", data)
		}
	})

	t.Run("numeric keys in hand-written files", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(p, []byte("campuses:\n  62:\n    default_batches: [A]\n"), 0644); err != nil {
			t.Fatal(err)
		}
		entry, err := NewFileStore(p).Get(ctx, "campuses.62.default_batches")
		if err != nil || entry == nil {
			t.Fatalf("Get() = %v, %v", entry, err)
		}
	})

	t.Run("get by prefix", func(t *testing.T) {
		entries, err := store.GetByPrefix(ctx, "server.")
		if err != nil {
			t.Fatalf("GetByPrefix() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("GetByPrefix() = %v, want only server.port", entries)
		}
		all, err := store.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
		if got := Keys(all); len(got) != 2 || got[0] != "campuses.62.default_batches" {
			t.Errorf("Keys(GetAll()) = %v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "server.port"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		entry, err := store.Get(ctx, "server.port")
		if err != nil || entry != nil {
			t.Errorf("Get() after Delete = %v, %v", entry, err)
		}
		if err := store.Delete(ctx, "never.set"); err != nil {
			t.Errorf("Delete(missing) error = %v", err)
		}
	})

	t.Run("seed then reset", func(t *testing.T) {
		if err := SeedDefaults(ctx, store, nil); err != nil {
			t.Fatalf("SeedDefaults() error = %v", err)
		}
		all, err := store.GetAll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range DefaultEntries() {
			if _, ok := all[e.Key]; !ok {
				t.Errorf("seeded file missing %s", e.Key)
			}
		}

		// The seeded file must load as a config.
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("NewManager(seeded) error = %v", err)
		}
		if mgr.Get().Server.Port != "8080" {
			t.Errorf("seeded Server.Port = %q, want 8080", mgr.Get().Server.Port)
		}
	})

	t.Run("rejects invalid keys", func(t *testing.T) {
		if err := store.Set(ctx, "bad key", 1, ""); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(bad key) error = %v, want ErrInvalidKey", err)
		}
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid simple key", "foo", false},
		{"valid dotted key", "campuses.62.default_batches", false},
		{"valid with underscore", "sessions.max_entries", false},
		{"valid with hyphen", "my-setting", false},
		{"empty key", "", true},
		{"starts with dot", ".foo", true},
		{"ends with dot", "foo.", true},
		{"empty segment", "foo..bar", true},
		{"contains space", "foo bar", true},
		{"contains special char", "foo@bar", true},
		{"contains slash", "foo/bar", true},
		{"contains colon", "foo:bar", true},
		{"contains quote", "foo\"bar", true},
		{"contains curly brace", "foo{bar}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) error should wrap ErrInvalidKey, got %v", tt.key, err)
			}
		})
	}
}
