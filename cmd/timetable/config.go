package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the config file",
	Long: `Inspect and edit the config file directly, without a server.

A running server watches the file and applies edits on save.`,
}

// configStore opens the config file in use, or the home config file.
func configStore() (*config.FileStore, error) {
	h, mgr, err := loadEnv()
	if err != nil {
		return nil, err
	}
	path := mgr.ConfigFileUsed()
	if path == "" {
		path = h.ConfigPath()
	}
	return config.NewFileStore(path), nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory and a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, _, err := loadEnv()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		if !api.IsStructuredOutput() {
			fmt.Println("Wrote", h.ConfigPath())
			return nil
		}
		return api.Output(map[string]string{"file": h.ConfigPath()})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := loadEnv()
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value from the file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		entry, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%s is not set in %s", args[0], store.Path())
		}
		return api.Output(entry)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value in the file",
	Long: `Set a config value. The value is parsed as YAML, so numbers,
booleans and lists keep their type.

Examples:
  timetable config set server.port 9090
  timetable config set campuses.62.default_batches "[A, B, C]"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value any
		if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
			value = args[1]
		}
		if err := config.CheckSetting(args[0], value); err != nil {
			return err
		}
		store, err := configStore()
		if err != nil {
			return err
		}
		if err := store.Set(cmd.Context(), args[0], value, ""); err != nil {
			return err
		}
		return api.Output(config.Entry{Key: args[0], Value: value})
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List config values set in the file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		all, err := store.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		entries := make([]config.Entry, 0, len(all))
		for _, key := range config.Keys(all) {
			entries = append(entries, all[key])
		}
		return api.Output(entries)
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Reset a config value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		if err := config.ResetToDefault(cmd.Context(), store, args[0]); err != nil {
			if errors.Is(err, config.ErrNoDefault) {
				return fmt.Errorf("%s has no default", args[0])
			}
			return err
		}
		return api.Output(config.GetDefault(args[0]))
	},
}

var configSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write every default not yet set in the file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		return config.SeedDefaults(cmd.Context(), store, newLogger("info"))
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configSeedCmd)

	rootCmd.AddCommand(configCmd)
}
