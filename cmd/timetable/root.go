package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/config"
	"github.com/jackzampolin/timetable/internal/home"
	"github.com/jackzampolin/timetable/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Personalized class timetables from campus timetable grids",
	Long: `Timetable turns a campus weekly timetable grid into one student's
personal schedule.

It covers:
  - Parsing compact entries such as "LF7F8(15B11CI513)-148/ASHISH"
  - Expanding batch specifications (A1-A10, F7F8, ABC, 1,3,5)
  - Campus and year specific inclusion rules
  - Comparing two students' schedules for free time and shared classes
  - iCalendar export`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	// Parent PersistentPreRun hooks run before the api command's own.
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.timetable/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "timetable home directory (default: ~/.timetable)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadEnv resolves the home directory and loads configuration from the
// --config file, ./config.yaml or the home directory, in that order.
func loadEnv() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}

// newLogger builds the CLI logger. Diagnostics go to stderr so they never
// mix with command output.
func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLevel(level),
	}))
}
