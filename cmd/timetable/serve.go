package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/config"
	"github.com/jackzampolin/timetable/internal/server"
)

var (
	serveHost    string
	servePort    string
	serveOpenAPI string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the timetable server",
	Long: `Start the timetable HTTP server.

The server builds personalized timetables on request. Timetables can be
sent inline, uploaded once into a session, or read from campus data files
in the home directory (data/<campus>.json).

Edits to the config file are applied without a restart.

Examples:
  timetable serve                    # Start on the configured port (default 8080)
  timetable serve --port 3000        # Start on custom port
  timetable serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, mgr, err := loadEnv()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cfg := mgr.Get()
		logger := newLogger(cfg.Log.Level)
		if used := mgr.ConfigFileUsed(); used != "" {
			logger.Info("loaded config", "file", used)
			mgr.WatchConfig()
		}

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		// Settings edits go to the file being watched, or the home config.
		storePath := mgr.ConfigFileUsed()
		if storePath == "" {
			storePath = h.ConfigPath()
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   mgr,
			ConfigStore:     config.NewFileStore(storePath),
			Home:            h,
			SwaggerSpecPath: serveOpenAPI,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveOpenAPI, "openapi", "", "Serve this swagger.json instead of the built-in one")

	rootCmd.AddCommand(serveCmd)
}
