package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/dataset"
	"github.com/jackzampolin/timetable/internal/home"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/schema"
	"github.com/jackzampolin/timetable/internal/types"
)

// buildFlags select a timetable source and a student for offline commands.
type buildFlags struct {
	campus    string
	year      string
	batch     string
	subjects  []string
	timetable string
	subjFile  string
	data      string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.campus, "campus", "62", "Campus identifier (62, 128, bca)")
	cmd.Flags().StringVar(&f.year, "year", "1", "Year of study")
	cmd.Flags().StringVar(&f.batch, "batch", "", "Student batch (e.g. A6)")
	cmd.Flags().StringSliceVar(&f.subjects, "subject", nil, "Enrolled subject code (repeatable)")
	cmd.Flags().StringVar(&f.timetable, "timetable", "", "Raw timetable JSON file")
	cmd.Flags().StringVar(&f.subjFile, "subjects", "", "Subject directory JSON file")
	cmd.Flags().StringVar(&f.data, "data", "", "Campus data file (year -> timetable, subjects)")
}

// loadSource reads the grid and subject directory. Explicit files win,
// then --data, then the campus data file in the home directory.
func (f *buildFlags) loadSource(h *home.Dir, logger *slog.Logger) (types.RawTimetable, []types.Subject, error) {
	var (
		tt       types.RawTimetable
		subjects []types.Subject
		report   dataset.Report
	)

	switch {
	case f.timetable != "" || f.subjFile != "":
		if f.timetable != "" {
			data, err := readInput("timetable", f.timetable, logger)
			if err != nil {
				return nil, nil, err
			}
			var r dataset.Report
			if tt, r, err = dataset.DecodeTimetable(data); err != nil {
				return nil, nil, err
			}
			report.Merge(r)
		}
		if f.subjFile != "" {
			data, err := readInput("subjects", f.subjFile, logger)
			if err != nil {
				return nil, nil, err
			}
			var r dataset.Report
			if subjects, r, err = dataset.DecodeSubjects(data); err != nil {
				return nil, nil, err
			}
			report.Merge(r)
		}

	default:
		path := f.data
		if path == "" {
			if !h.HasCampusData(f.campus) {
				return nil, nil, fmt.Errorf("no input: pass --timetable/--subjects, --data, or add %s", h.CampusDataPath(f.campus))
			}
			path = h.CampusDataPath(f.campus)
		}
		sections, r, err := dataset.ReadSections(path)
		if err != nil {
			return nil, nil, err
		}
		report = r
		section, err := dataset.Pick(sections, f.year)
		if err != nil {
			return nil, nil, err
		}
		tt, subjects = section.Timetable, section.Subjects
	}

	if report.Dropped > 0 {
		logger.Warn("dropped malformed input elements", "dropped", report.Dropped, "problems", report.Problems)
	}
	return tt, subjects, nil
}

// readInput reads a document and warns when it does not match its schema.
func readInput(kind, path string, logger *slog.Logger) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	if err := schema.Validate(kind, data); err != nil {
		logger.Warn("input does not match schema, decoding leniently", "file", path, "error", err)
	}
	return data, nil
}

// assemble builds the personalized timetable the flags describe.
func (f *buildFlags) assemble(ctx context.Context) (types.PersonalizedTimetable, error) {
	if f.batch == "" {
		return nil, errors.New("--batch is required")
	}
	h, mgr, err := loadEnv()
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()
	logger := newLogger(cfg.Log.Level)

	tt, subjects, err := f.loadSource(h, logger)
	if err != nil {
		return nil, err
	}

	registry := schedule.NewRegistry(cfg.ToScheduleSettings())
	registry.SetLogger(logger)
	profile, err := registry.Lookup(f.campus, f.year)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := schedule.NewAssembler(profile, subjects, schedule.WithLogger(logger))
	out, _ := a.Assemble(tt, types.StudentContext{
		Batch:                f.batch,
		EnrolledSubjectCodes: f.subjects,
	})
	return out, nil
}

var (
	buildOpts buildFlags
	buildOut  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a personalized timetable offline",
	Long: `Assemble one student's timetable without a server.

Input is read from --timetable and --subjects, from a campus data file
given with --data, or from data/<campus>.json in the home directory.

Examples:
  timetable build --campus 62 --year 1 --batch A6 --subject HS434 \
      --timetable tt.json --subjects subjects.json
  timetable build --campus 128 --year 2 --batch F7 --data campus128.json -o json
  timetable build --batch A6 --out mine.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tt, err := buildOpts.assemble(cmd.Context())
		if err != nil {
			return err
		}
		if buildOut != "" {
			return api.OutputToFile(tt, buildOut)
		}
		return api.Output(tt)
	},
}

func init() {
	buildOpts.register(buildCmd)
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Write the timetable to a file (.json or .yaml)")
	rootCmd.AddCommand(buildCmd)
}
