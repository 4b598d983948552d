package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/types"
)

// readTimetable loads an assembled timetable written by build (JSON or YAML).
func readTimetable(path string) (types.PersonalizedTimetable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timetable: %w", err)
	}
	tt := types.PersonalizedTimetable{}
	if err := yaml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return tt, nil
}

var compareCmd = &cobra.Command{
	Use:   "compare <first> <second>",
	Short: "Compare two assembled timetables",
	Long: `Compare two timetables produced by build.

Prints the hourly slots between 08:00 and 17:00 that are free for both
students and the classes they attend together.

Examples:
  timetable build --batch A6 --out a6.json
  timetable build --batch A2 --out a2.json
  timetable compare a6.json a2.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		first, err := readTimetable(args[0])
		if err != nil {
			return err
		}
		second, err := readTimetable(args[1])
		if err != nil {
			return err
		}
		return api.Output(schedule.Compare(first, second))
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
