package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// DefaultEntries returns the default configuration entries.
// They are registered as viper defaults and seeded by "config init".
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Server
		// ===================
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "Host the HTTP server binds to",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "Port the HTTP server listens on",
		},
		{
			Key:         "server.max_body_bytes",
			Value:       d.Server.MaxBodyBytes,
			Description: "Largest accepted request body in bytes",
		},
		{
			Key:         "log.level",
			Value:       d.Log.Level,
			Description: "Log level: debug, info, warn or error",
		},

		// ===================
		// Sessions
		// ===================
		{
			Key:         "sessions.max_entries",
			Value:       d.Sessions.MaxEntries,
			Description: "Uploads kept before the least recently used is evicted",
		},
		{
			Key:         "sessions.ttl",
			Value:       d.Sessions.TTL.String(),
			Description: "How long an upload stays usable",
		},

		// ===================
		// Campuses
		// ===================
		{
			Key:         "campuses.62.default_batches",
			Value:       d.Campuses["62"].DefaultBatches,
			Description: "Sector 62 batches an empty batch spec stands for",
		},
		{
			Key:         "campuses.128.default_batches",
			Value:       d.Campuses["128"].DefaultBatches,
			Description: "Sector 128 batches an empty batch spec stands for",
		},
		{
			Key:         "campuses.128.aliases",
			Value:       d.Campuses["128"].Aliases,
			Description: "Sector 128 batch words that mean every batch",
		},
		{
			Key:         "campuses.bca.default_batches",
			Value:       []string{},
			Description: "BCA batches an empty batch spec stands for",
		},
		{
			Key:         "non_class_markers",
			Value:       d.NonClassMarkers,
			Description: "Entries containing any of these words are breaks, not classes",
		},

		// ===================
		// Export and client
		// ===================
		{
			Key:         "export.timezone",
			Value:       d.Export.Timezone,
			Description: "Time zone class times are given in",
		},
		{
			Key:         "client.retries",
			Value:       d.Client.Retries,
			Description: "Attempts the CLI makes against the API server",
		},
		{
			Key:         "client.retry_delay",
			Value:       d.Client.RetryDelay.String(),
			Description: "Initial delay between CLI retries",
		},
	}
}

// SeedDefaults seeds default configuration entries into the store.
// This is idempotent - existing entries are not overwritten.
func SeedDefaults(ctx context.Context, store Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	seeded := 0
	skipped := 0

	for _, entry := range DefaultEntries() {
		existing, err := store.Get(ctx, entry.Key)
		if err != nil {
			return fmt.Errorf("failed to check key %q: %w", entry.Key, err)
		}

		if existing != nil {
			skipped++
			continue
		}

		if err := store.Set(ctx, entry.Key, entry.Value, entry.Description); err != nil {
			return fmt.Errorf("failed to seed key %q: %w", entry.Key, err)
		}
		seeded++
	}

	if seeded > 0 {
		logger.Info("seeded default config entries", "seeded", seeded, "skipped", skipped)
	}
	return nil
}

// GetDefault returns the default value for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ResetToDefault resets a config key to its default value.
// Returns ErrNoDefault if no default exists for the key.
func ResetToDefault(ctx context.Context, store Store, key string) error {
	def := GetDefault(key)
	if def == nil {
		return fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return store.Set(ctx, key, def.Value, def.Description)
}
