package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Timetable62 is a small sector 62 first-year grid. Monday has a lecture
// for batches A1 to A3, a practical for A6, a lunch break and an elective
// (HS434) offered to all of batch A. Tuesday has a tutorial for A6.
//
// Batch A6 enrolled in HS434 gets Monday 10:00-12:00 and 14:00-15:00 and
// Tuesday 11:00-12:00. Batch A2 gets only Monday 09:00-10:00.
const Timetable62 = `{
  "MON": {
    "9-9.50 AM": ["LA1-A3(15B11CI111)-G1/DR ALPHA"],
    "10-10.50 AM": ["PA6(15B17PH171)-LAB1/DR BETA"],
    "12-12.50 PM": ["LUNCH"],
    "2-2.50 PM": ["LA(15B1NHS434)-G8/DR GAMMA"]
  },
  "TUES": {
    "11-11.50 AM": ["TA6(15B11MA111)-TS1/DR DELTA"]
  }
}`

// Subjects62 is the subject directory for Timetable62.
const Subjects62 = `[
  {"Code": "CI111", "Full Code": "15B11CI111", "Subject": "SOFTWARE DEVELOPMENT FUNDAMENTALS"},
  {"Code": "PH171", "Full Code": "15B17PH171", "Subject": "Physics Lab"},
  {"Code": "HS434", "Full Code": "15B1NHS434", "Subject": "Econometrics"},
  {"Code": "MA111", "Full Code": "15B11MA111", "Subject": "Mathematics"}
]`

// Sections62 is a campus data file holding Timetable62 as year 1.
const Sections62 = `{"1": {"timetable": ` + Timetable62 + `, "subjects": ` + Subjects62 + `}}`

// WriteFile writes content to name under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
