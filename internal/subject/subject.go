// Package subject resolves subject codes found in timetable entries to
// subject names, and decides elective membership and enrollment.
//
// Entries rarely carry the exact code stored in the subject directory. A
// fixed battery of substring transforms of the directory's full code is
// tried in order; the first subject that matches wins.
package subject

import (
	"slices"
	"strings"

	"github.com/jackzampolin/timetable/internal/batch"
	"github.com/jackzampolin/timetable/internal/types"
)

// Catalog is a campus subject directory in source order.
type Catalog []types.Subject

// ResolveName returns the name of the first subject whose code, or one of
// its code aliases, equals code. Unresolved codes are returned unchanged.
func (c Catalog) ResolveName(code string) string {
	if s := c.Find(code); s != nil {
		return s.Name
	}
	return code
}

// Find returns the first subject matching code, or nil.
func (c Catalog) Find(code string) *types.Subject {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	for i := range c {
		if matches(c[i], code) {
			return &c[i]
		}
	}
	return nil
}

// IsEnrolled reports whether code belongs to one of the enrolled subjects.
// A direct hit on the enrolled list returns no subject record; otherwise the
// matching directory subject is returned.
func (c Catalog) IsEnrolled(enrolled []string, code string) (bool, *types.Subject) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	if slices.Contains(enrolled, code) {
		return true, nil
	}

	// "15B11CI513/15B11CI514" style codes also enroll the first alternative.
	combined := slices.Clone(enrolled)
	for _, e := range enrolled {
		if head, _, ok := strings.Cut(e, "/"); ok {
			combined = append(combined, strings.TrimSpace(head))
		}
	}

	for i := range c {
		s := &c[i]
		if !slices.Contains(combined, s.Code) && !slices.Contains(combined, s.FullCode) {
			continue
		}
		if head, _, ok := strings.Cut(s.Code, "/"); ok && strings.TrimSpace(head) == code {
			return true, s
		}
		if s.FullCode == code || matches(*s, code) {
			return true, s
		}
	}
	return false, nil
}

// Aliases returns the code forms a subject may appear under in entries,
// in the order they are tried.
func Aliases(s types.Subject) []string {
	full, code := s.FullCode, s.Code
	return []string{
		full,
		cut(full, 0, 2) + code,
		cut(full, 3, len(full)),
		cut(full, 2, len(full)),
		cut(full, 0, 5) + code,
		cut(full, 2, 5) + code,
		cut(full, 3, 5) + code,
		cut(code, 1, len(code)),
	}
}

func matches(s types.Subject, code string) bool {
	if s.Code == code {
		return true
	}
	for _, a := range Aliases(s) {
		if a = strings.TrimSpace(a); a != "" && a == code {
			return true
		}
	}
	return false
}

// cut slices s[i:j] with bounds clamped to the string.
func cut(s string, i, j int) string {
	i = min(i, len(s))
	j = min(max(j, i), len(s))
	return s[i:j]
}

// IsElective reports whether an entry is an elective class, meaning
// inclusion is decided by enrollment rather than by batch. expanded is the
// entry's batch spec after expansion.
//
// These rules mirror how the published sheets lay out electives; they are
// unverified institutional policy and are kept exactly as observed.
func IsElective(batchSpec, subjectCode string, expanded []string) bool {
	switch {
	case strings.EqualFold(batchSpec, "A7-A8-A10"):
		// Core class shared by three batches.
		return false
	case batch.IsAlpha(batchSpec):
		return true
	case len(expanded) > 3:
		return true
	case strings.TrimSpace(batchSpec) == "":
		return true
	case len(expanded) == 3 && batchSpec[0] == 'C' && !strings.HasPrefix(subjectCode, "B"):
		return true
	}
	return false
}
