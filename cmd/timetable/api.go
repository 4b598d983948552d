package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running timetable server via HTTP.

These commands require a running server (timetable serve).
Use --server to specify a custom server URL. Failed connections and
server errors are retried (client.retries, client.retry_delay).

Examples:
  timetable api health                                  # Check server health
  timetable api profiles                                # List campus profiles
  timetable api sessions create --campus 62 --timetable tt.json --subjects subjects.json
  timetable api timetable --session <id> --batch A6 --subject HS434`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := loadEnv()
		if err != nil {
			return err
		}
		c := mgr.Get().Client
		endpoints.ClientOptions = []api.ClientOption{api.WithRetries(c.Retries, c.RetryDelay)}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Timetable upload session commands",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configuration settings commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Timetable endpoints at top level of api
	apiCmd.AddCommand((&endpoints.ListProfilesEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.TimetableEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ICSEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.CompareEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.CompareTimetablesEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	// Sessions as subcommand group
	for _, ep := range endpoints.SessionCommands() {
		sessionsCmd.AddCommand(ep.Command(getServerURL))
	}

	// Settings as subcommand group
	for _, ep := range endpoints.SettingsCommands() {
		settingsCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(sessionsCmd)
	apiCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(apiCmd)
}
