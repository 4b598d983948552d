package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSection is returned when a data file has no entry for a year.
var ErrNoSection = errors.New("no data for year")

// ReadSections loads a campus data file from disk.
func ReadSections(path string) (map[string]Section, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to read data file: %w", err)
	}
	sections, report, err := DecodeSections(data)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", path, err)
	}
	return sections, report, nil
}

// Pick returns the section for year. Years other than "1" fall back to
// the first upper-year section present when there is no exact match.
func Pick(sections map[string]Section, year string) (Section, error) {
	year = strings.TrimSpace(year)
	if s, ok := sections[year]; ok {
		return s, nil
	}
	if year != "1" {
		for _, y := range []string{"2", "3", "4", "upper"} {
			if s, ok := sections[y]; ok {
				return s, nil
			}
		}
	}
	return Section{}, fmt.Errorf("%w %q", ErrNoSection, year)
}
