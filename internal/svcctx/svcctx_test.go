package svcctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/session"
)

func TestExtractors(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()
		if ServicesFrom(ctx) != nil {
			t.Error("ServicesFrom() should be nil")
		}
		if SessionsFrom(ctx) != nil || ProfilesFrom(ctx) != nil || ConfigFrom(ctx) != nil || HomeFrom(ctx) != nil {
			t.Error("extractors should return nil without services")
		}
		if LoggerFrom(ctx) != slog.Default() {
			t.Error("LoggerFrom() should fall back to slog.Default")
		}
	})

	t.Run("attached services", func(t *testing.T) {
		store, err := session.NewStore(session.Config{})
		if err != nil {
			t.Fatalf("NewStore() error = %v", err)
		}
		profiles := schedule.NewRegistry(schedule.DefaultSettings())
		logger := slog.New(slog.DiscardHandler)
		ctx := WithServices(context.Background(), &Services{
			Sessions: store,
			Profiles: profiles,
			Logger:   logger,
		})
		if SessionsFrom(ctx) != store {
			t.Error("SessionsFrom() mismatch")
		}
		if ProfilesFrom(ctx) != profiles {
			t.Error("ProfilesFrom() mismatch")
		}
		if LoggerFrom(ctx) != logger {
			t.Error("LoggerFrom() mismatch")
		}
	})
}
