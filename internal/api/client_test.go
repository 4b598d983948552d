package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Retries(t *testing.T) {
	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"warming up"}`))
				return
			}
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, WithRetries(3, time.Millisecond))
		var resp struct {
			Status string `json:"status"`
		}
		if err := client.Get(context.Background(), "/health", &resp); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if resp.Status != "ok" {
			t.Errorf("Status = %q, want ok", resp.Status)
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3", got)
		}
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"missing batch"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, WithRetries(5, time.Millisecond))
		err := client.Post(context.Background(), "/api/timetable", map[string]string{}, nil)
		if err == nil {
			t.Fatal("Post() should fail")
		}
		if StatusCode(err) != http.StatusBadRequest {
			t.Errorf("StatusCode() = %d, want 400", StatusCode(err))
		}
		if err.Error() != "server error (400): missing batch" {
			t.Errorf("error = %q", err.Error())
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("calls = %d, want 1", got)
		}
	})

	t.Run("post sends json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
			}
			w.Header().Set("Content-Type", "text/calendar")
			w.Write([]byte("BEGIN:VCALENDAR"))
		}))
		defer srv.Close()

		body, err := NewClient(srv.URL).PostRaw(context.Background(), "/x", map[string]int{"a": 1})
		if err != nil {
			t.Fatalf("PostRaw() error = %v", err)
		}
		if string(body) != "BEGIN:VCALENDAR" {
			t.Errorf("body = %q", body)
		}
	})
}
