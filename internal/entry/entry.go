// Package entry tokenizes raw timetable cells such as "LF7F8(15B11CI513)-148/ASHISH"
// into their session type, batch spec, subject code and location.
package entry

import (
	"strings"

	"github.com/jackzampolin/timetable/internal/types"
)

// Options tune tokenization for a campus.
type Options struct {
	// AllowCustom accepts a leading C as the custom session type.
	AllowCustom bool
}

// Parse splits a raw entry into its components. It never fails; missing
// pieces come back empty and an unknown session prefix defaults to lecture.
func Parse(raw string, opts Options) types.ParsedClass {
	text := strings.TrimSpace(raw)
	return types.ParsedClass{
		SubjectCode: SubjectCode(text),
		BatchSpec:   BatchSpec(text, opts),
		SessionType: SessionType(text, opts),
		Location:    Location(text),
	}
}

// SessionType returns the session type named by the first character of text.
func SessionType(text string, opts Options) types.SessionType {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.SessionLecture
	}
	if isSessionPrefix(text[0], opts) {
		return types.SessionType(strings.ToUpper(text[:1]))
	}
	return types.SessionLecture
}

// SubjectCode returns the text inside the first parenthesis pair. Without
// parentheses it is the text before the first dash or slash, or all of it.
func SubjectCode(text string) string {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return strings.TrimSpace(beforeSeparator(text))
	}
	rest := text[open+1:]
	if end := strings.IndexByte(rest, ')'); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	// Unclosed parenthesis: the code runs until the location part.
	return strings.TrimSpace(beforeSeparator(rest))
}

// BatchSpec returns the batch specification: the text after the session
// prefix and before the first parenthesis.
func BatchSpec(text string, opts Options) string {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return strings.TrimSpace(beforeSeparator(text))
	}
	spec := text[:open]
	if spec != "" && isSessionPrefix(spec[0], opts) {
		spec = spec[1:]
	}
	return strings.TrimSpace(spec)
}

// Location returns the segment after the last dash, cut at the first slash.
// Entries without a dash have no location.
func Location(text string) string {
	text = strings.TrimSpace(text)
	dash := strings.LastIndexByte(text, '-')
	if dash < 0 {
		return ""
	}
	loc, _, _ := strings.Cut(text[dash+1:], "/")
	return strings.TrimSpace(loc)
}

// IsNonClass reports whether an entry names a break rather than a class.
// Markers are matched case-insensitively anywhere in the entry.
func IsNonClass(text string, markers []string) bool {
	upper := strings.ToUpper(text)
	for _, m := range markers {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

func beforeSeparator(s string) string {
	if i := strings.IndexAny(s, "-/"); i >= 0 {
		return s[:i]
	}
	return s
}

func isSessionPrefix(c byte, opts Options) bool {
	switch c {
	case 'L', 'P', 'T', 'l', 'p', 't':
		return true
	case 'C', 'c':
		return opts.AllowCustom
	}
	return false
}
