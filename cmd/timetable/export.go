package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/export"
	"github.com/jackzampolin/timetable/internal/types"
)

var (
	exportOpts     buildFlags
	exportFrom     string
	exportStart    string
	exportEnd      string
	exportTimezone string
	exportPrefix   string
	exportOut      string
)

// exportResult reports where an export went.
type exportResult struct {
	File    string `json:"file" yaml:"file"`
	Events  int    `json:"events" yaml:"events"`
	Skipped int    `json:"skipped" yaml:"skipped"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a timetable as an iCalendar file",
	Long: `Export a personalized timetable as weekly recurring calendar events.

The timetable is read from --from (a file written by build) or assembled
from the same flags build accepts. Events repeat weekly from --start
through --end.

Examples:
  timetable export --from a6.json --start 2026-01-05 --end 2026-05-01
  timetable export --batch A6 --subject HS434 --start 2026-01-05 --end 2026-05-01 --out a6.ics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(time.DateOnly, exportStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.Parse(time.DateOnly, exportEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		var tt types.PersonalizedTimetable
		if exportFrom != "" {
			tt, err = readTimetable(exportFrom)
		} else {
			tt, err = exportOpts.assemble(cmd.Context())
		}
		if err != nil {
			return err
		}

		h, mgr, err := loadEnv()
		if err != nil {
			return err
		}
		zone := exportTimezone
		if zone == "" {
			zone = mgr.Get().Export.Timezone
		}
		loc, err := export.LoadLocation(zone)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			out = filepath.Join(h.ExportsDir(), "timetable-"+start.Format("20060102")+".ics")
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()

		res, err := export.WriteICS(f, tt, export.Options{
			Start:    start,
			End:      end,
			Location: loc,
			Prefix:   exportPrefix,
		})
		if err != nil {
			return err
		}
		return api.Output(exportResult{File: out, Events: res.Events, Skipped: res.Skipped})
	},
}

func init() {
	exportOpts.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Assembled timetable file (skips assembly)")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "First day of term (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Last day of term (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTimezone, "timezone", "", "Time zone of class times (default: export.timezone)")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "Text prepended to event titles")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: {home}/exports/timetable-<start>.ics)")
	_ = exportCmd.MarkFlagRequired("start")
	_ = exportCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(exportCmd)
}
