// Package dataset decodes timetable input documents. Decoding is lenient:
// elements of the wrong shape are dropped and counted in a Report instead
// of failing the whole document.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackzampolin/timetable/internal/types"
)

// ErrInvalidJSON is returned when a document is not JSON at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// maxProblems bounds how many problem descriptions a Report keeps.
const maxProblems = 20

// Report describes what lenient decoding dropped.
type Report struct {
	Dropped  int      `json:"dropped" yaml:"dropped"`
	Problems []string `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func (r *Report) drop(format string, args ...any) {
	r.Dropped++
	if len(r.Problems) < maxProblems {
		r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
	}
}

// Merge adds other's drops to r.
func (r *Report) Merge(other Report) {
	r.Dropped += other.Dropped
	for _, p := range other.Problems {
		if len(r.Problems) >= maxProblems {
			break
		}
		r.Problems = append(r.Problems, p)
	}
}

// DecodeTimetable decodes a raw timetable, keeping day and slot order.
// Anything that is not an object of objects of string arrays is dropped.
// An empty or null document is an empty timetable.
func DecodeTimetable(data []byte) (types.RawTimetable, Report, error) {
	var report Report
	tt := types.RawTimetable{}
	if isEmpty(data) {
		return tt, report, nil
	}
	if !json.Valid(data) {
		return tt, report, fmt.Errorf("%w: timetable", ErrInvalidJSON)
	}

	days, err := orderedObject(data)
	if err != nil {
		if errors.Is(err, errNotObject) {
			report.drop("timetable: expected an object")
			return tt, report, nil
		}
		return tt, report, err
	}

	for _, d := range days {
		slots, err := orderedObject(d.value)
		if err != nil {
			report.drop("timetable: day %q is not an object", d.key)
			continue
		}
		day := types.RawDay{Day: d.key}
		for _, s := range slots {
			var items []json.RawMessage
			if err := json.Unmarshal(s.value, &items); err != nil {
				report.drop("timetable: %s %q is not a list", d.key, s.key)
				continue
			}
			slot := types.RawSlot{Time: s.key}
			for i, item := range items {
				var text string
				if err := json.Unmarshal(item, &text); err != nil || isEmpty(item) {
					report.drop("timetable: %s %q entry %d is not a string", d.key, s.key, i)
					continue
				}
				if strings.TrimSpace(text) == "" {
					report.drop("timetable: %s %q entry %d is blank", d.key, s.key, i)
					continue
				}
				slot.Entries = append(slot.Entries, text)
			}
			day.Slots = append(day.Slots, slot)
		}
		tt = append(tt, day)
	}
	return tt, report, nil
}

// DecodeSubjects decodes a subject directory. Both the {"Code", "Full Code",
// "Subject"} and {"code", "fullCode", "subject"} spellings are accepted.
// Rows without a code are dropped.
func DecodeSubjects(data []byte) ([]types.Subject, Report, error) {
	var report Report
	subjects := []types.Subject{}
	if isEmpty(data) {
		return subjects, report, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		if !json.Valid(data) {
			return subjects, report, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		report.drop("subjects: expected a list")
		return subjects, report, nil
	}

	for i, row := range rows {
		var fields map[string]any
		if err := json.Unmarshal(row, &fields); err != nil || fields == nil {
			report.drop("subjects: row %d is not an object", i)
			continue
		}
		s := types.Subject{
			Code:     field(fields, "Code", "code"),
			FullCode: field(fields, "Full Code", "fullCode", "full_code"),
			Name:     field(fields, "Subject", "subject", "name"),
		}
		if s.Code == "" {
			report.drop("subjects: row %d has no code", i)
			continue
		}
		subjects = append(subjects, s)
	}
	return subjects, report, nil
}

// Section is one year of a campus data file.
type Section struct {
	Timetable types.RawTimetable `json:"timetable" yaml:"-"`
	Subjects  []types.Subject    `json:"subjects" yaml:"subjects"`
}

// DecodeSections decodes a campus data file: year -> {timetable, subjects}.
func DecodeSections(data []byte) (map[string]Section, Report, error) {
	var report Report
	out := map[string]Section{}

	var years map[string]json.RawMessage
	if err := json.Unmarshal(data, &years); err != nil {
		if !json.Valid(data) {
			return out, report, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		report.drop("sections: expected an object")
		return out, report, nil
	}

	for year, raw := range years {
		var parts struct {
			Timetable json.RawMessage `json:"timetable"`
			Subjects  json.RawMessage `json:"subjects"`
		}
		if err := json.Unmarshal(raw, &parts); err != nil {
			report.drop("sections: year %q is not an object", year)
			continue
		}
		tt, r, err := DecodeTimetable(parts.Timetable)
		if err != nil {
			return nil, report, fmt.Errorf("year %s: %w", year, err)
		}
		report.Merge(r)
		subjects, r, err := DecodeSubjects(parts.Subjects)
		if err != nil {
			return nil, report, fmt.Errorf("year %s: %w", year, err)
		}
		report.Merge(r)
		out[year] = Section{Timetable: tt, Subjects: subjects}
	}
	return out, report, nil
}

func field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return ""
}

func isEmpty(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

var errNotObject = errors.New("not an object")

type member struct {
	key   string
	value json.RawMessage
}

// orderedObject reads the members of a JSON object in document order.
func orderedObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected object key %v", ErrInvalidJSON, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return members, nil
}
