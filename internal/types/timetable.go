// Package types provides shared timetable types used across multiple packages.
// This package has no dependencies on other timetable packages to avoid import cycles.
package types

import (
	"bytes"
	"encoding/json"
)

// SessionType is the kind of class session an entry describes.
type SessionType string

const (
	// SessionLecture is a lecture. Entries without a recognised prefix default to it.
	SessionLecture SessionType = "L"
	// SessionTutorial is a tutorial.
	SessionTutorial SessionType = "T"
	// SessionPractical is a lab session. Practicals occupy one extra hour.
	SessionPractical SessionType = "P"
	// SessionCustom is accepted only by campuses that enable it.
	SessionCustom SessionType = "C"
)

// ParseSessionType converts a string to a SessionType.
// Returns SessionLecture if the string is not recognized.
func ParseSessionType(s string) SessionType {
	switch s {
	case "L":
		return SessionLecture
	case "T":
		return SessionTutorial
	case "P":
		return SessionPractical
	case "C":
		return SessionCustom
	default:
		return SessionLecture
	}
}

// Label returns a human readable name for the session type.
func (s SessionType) Label() string {
	switch s {
	case SessionTutorial:
		return "Tutorial"
	case SessionPractical:
		return "Practical"
	case SessionCustom:
		return "Custom"
	default:
		return "Lecture"
	}
}

// Subject is one row of a campus subject directory.
type Subject struct {
	Code     string `json:"Code" yaml:"code"`
	FullCode string `json:"Full Code" yaml:"full_code"`
	Name     string `json:"Subject" yaml:"subject"`
}

// ParsedClass is the structured form of a single raw timetable entry.
type ParsedClass struct {
	SubjectCode string      `json:"subject_code" yaml:"subject_code"`
	BatchSpec   string      `json:"batch_spec" yaml:"batch_spec"`
	SessionType SessionType `json:"session_type" yaml:"session_type"`
	Location    string      `json:"location" yaml:"location"`
}

// StudentContext identifies whose timetable is being assembled.
type StudentContext struct {
	Batch                string   `json:"batch" yaml:"batch"`
	EnrolledSubjectCodes []string `json:"enrolledSubjectCodes" yaml:"enrolled_subject_codes"`
}

// RawSlot is one time slot of a raw campus grid with its entries in source order.
type RawSlot struct {
	Time    string
	Entries []string
}

// RawDay is one day of a raw campus grid with its slots in source order.
type RawDay struct {
	Day   string
	Slots []RawSlot
}

// RawTimetable is a campus grid: day -> time slot -> entries.
// Source order is kept so that later entries overwrite earlier ones deterministically.
type RawTimetable []RawDay

// Entries returns the number of entries across all days and slots.
func (rt RawTimetable) Entries() int {
	n := 0
	for _, d := range rt {
		for _, s := range d.Slots {
			n += len(s.Entries)
		}
	}
	return n
}

// MarshalJSON writes the grid as nested objects, preserving source order.
func (rt RawTimetable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range rt {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, d.Day); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, s := range d.Slots {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, s.Time); err != nil {
				return nil, err
			}
			entries := s.Entries
			if entries == nil {
				entries = []string{}
			}
			b, err := json.Marshal(entries)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// ClassInfo is one placed class in a personalized timetable.
type ClassInfo struct {
	SubjectName string      `json:"subject_name" yaml:"subject_name"`
	Type        SessionType `json:"type" yaml:"type"`
	Location    string      `json:"location" yaml:"location"`
}

// DaySchedule maps a canonical "HH:MM-HH:MM" range to the class held then.
type DaySchedule map[string]ClassInfo

// PersonalizedTimetable maps a full weekday name to that day's schedule.
type PersonalizedTimetable map[string]DaySchedule

// Classes returns the number of placed classes.
func (pt PersonalizedTimetable) Classes() int {
	n := 0
	for _, d := range pt {
		n += len(d)
	}
	return n
}

// Comparison is the result of comparing two personalized timetables.
type Comparison struct {
	CommonFreeSlots map[string][]string    `json:"common_free_slots" yaml:"common_free_slots"`
	ClassesTogether map[string]DaySchedule `json:"classes_together" yaml:"classes_together"`
}
