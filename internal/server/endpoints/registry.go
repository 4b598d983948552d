package endpoints

import (
	"github.com/jackzampolin/timetable/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Timetable endpoints
		&ListProfilesEndpoint{},
		&TimetableEndpoint{},
		&ICSEndpoint{},
		&CompareEndpoint{},
		&CompareTimetablesEndpoint{},

		// Upload session endpoints
		&CreateSessionEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},

		// Settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},
		&ResetSettingEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// SessionCommands returns endpoints for upload session operations.
// This groups session-related commands under "sessions" subcommand.
func SessionCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateSessionEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},
	}
}

// SettingsCommands returns endpoints for settings operations.
// This groups settings-related commands under "settings" subcommand.
func SettingsCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},
		&ResetSettingEndpoint{},
	}
}
