package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/dataset"
	"github.com/jackzampolin/timetable/internal/schema"
)

// validateResult is the outcome of checking one document.
type validateResult struct {
	File        string         `json:"file" yaml:"file"`
	Kind        string         `json:"kind" yaml:"kind"`
	Valid       bool           `json:"valid" yaml:"valid"`
	SchemaError string         `json:"schema_error,omitempty" yaml:"schema_error,omitempty"`
	Report      dataset.Report `json:"report" yaml:"report"`
}

// decodeReport runs the lenient decoder for kind and returns what it dropped.
func decodeReport(kind string, data []byte) (dataset.Report, error) {
	switch kind {
	case "timetable":
		_, r, err := dataset.DecodeTimetable(data)
		return r, err
	case "subjects":
		_, r, err := dataset.DecodeSubjects(data)
		return r, err
	case "sections":
		_, r, err := dataset.DecodeSections(data)
		return r, err
	default:
		return dataset.Report{}, nil
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate <kind> <file>",
	Short: "Check an input document against its schema",
	Long: fmt.Sprintf(`Check a document against its JSON schema and report which elements
lenient decoding would drop.

Kinds: %s

Exits non-zero when the document does not match its schema.

Examples:
  timetable validate timetable tt.json
  timetable validate sections data/62.json -o json`, strings.Join(schema.Names(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := args[0], args[1]
		if _, err := schema.Get(kind); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		res := validateResult{File: path, Kind: kind, Valid: true}
		if err := schema.Validate(kind, data); err != nil {
			res.Valid = false
			res.SchemaError = err.Error()
		}
		report, err := decodeReport(kind, data)
		if err != nil {
			return err
		}
		res.Report = report

		if err := api.Output(res); err != nil {
			return err
		}
		if !res.Valid {
			return fmt.Errorf("%s is not a valid %s document", path, kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
