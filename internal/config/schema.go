package config

import (
	"strings"
	"time"

	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/session"
)

// Config holds timetable configuration.
// Stored at: ./config.yaml or {home}/config.yaml
type Config struct {
	Server          ServerCfg            `mapstructure:"server" yaml:"server"`
	Log             LogCfg               `mapstructure:"log" yaml:"log"`
	Sessions        SessionsCfg          `mapstructure:"sessions" yaml:"sessions"`
	Campuses        map[string]CampusCfg `mapstructure:"campuses" yaml:"campuses"`
	NonClassMarkers []string             `mapstructure:"non_class_markers" yaml:"non_class_markers"`
	Export          ExportCfg            `mapstructure:"export" yaml:"export"`
	Client          ClientCfg            `mapstructure:"client" yaml:"client"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         string `mapstructure:"port" yaml:"port"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes"` // Request body limit
}

// LogCfg configures logging.
type LogCfg struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// SessionsCfg configures the upload session store.
type SessionsCfg struct {
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// CampusCfg configures one campus.
type CampusCfg struct {
	DefaultBatches []string `mapstructure:"default_batches" yaml:"default_batches"` // Batches an empty spec means
	Aliases        []string `mapstructure:"aliases" yaml:"aliases"`                 // Words that mean every batch
	AllowCustom    bool     `mapstructure:"allow_custom" yaml:"allow_custom"`       // Accept C as a session type
}

// ExportCfg configures calendar export.
type ExportCfg struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// ClientCfg configures the API client used by CLI commands.
type ClientCfg struct {
	Retries    uint          `mapstructure:"retries" yaml:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:         "127.0.0.1",
			Port:         "8080",
			MaxBodyBytes: 8 << 20,
		},
		Log: LogCfg{Level: "info"},
		Sessions: SessionsCfg{
			MaxEntries: session.DefaultMaxEntries,
			TTL:        session.DefaultTTL,
		},
		Campuses: map[string]CampusCfg{
			"62": {
				DefaultBatches: []string{"A", "B", "C", "D", "G", "H"},
			},
			"128": {
				DefaultBatches: []string{"E", "F", "H", "D"},
				Aliases:        []string{"ALL", "MINOR"},
			},
			"bca": {},
		},
		NonClassMarkers: []string{"LUNCH", "TALK"},
		Export:          ExportCfg{Timezone: "Asia/Kolkata"},
		Client: ClientCfg{
			Retries:    3,
			RetryDelay: 500 * time.Millisecond,
		},
	}
}

// ToScheduleSettings converts the config to a format suitable for schedule.Registry.
func (c *Config) ToScheduleSettings() schedule.Settings {
	s := schedule.Settings{
		Campuses:        make(map[string]schedule.CampusSettings, len(c.Campuses)),
		NonClassMarkers: c.NonClassMarkers,
	}
	for name, campus := range c.Campuses {
		s.Campuses[strings.ToLower(name)] = schedule.CampusSettings{
			DefaultBatches: campus.DefaultBatches,
			Aliases:        campus.Aliases,
			AllowCustom:    campus.AllowCustom,
		}
	}
	return s
}

// ToSessionConfig converts the config to a format suitable for session.NewStore.
func (c *Config) ToSessionConfig() session.Config {
	return session.Config{
		MaxEntries: c.Sessions.MaxEntries,
		TTL:        c.Sessions.TTL,
	}
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
