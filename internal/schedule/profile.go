package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jackzampolin/timetable/internal/batch"
	"github.com/jackzampolin/timetable/internal/entry"
)

// ErrUnknownProfile is returned when no profile exists for a campus and year.
var ErrUnknownProfile = errors.New("unknown campus/year profile")

// Inclusion selects how an entry is matched against a student.
type Inclusion int

const (
	// InclusionBatch includes entries whose batch spec covers the student's batch.
	InclusionBatch Inclusion = iota
	// InclusionElective treats elective-style entries by enrollment and the rest by batch.
	InclusionElective
	// InclusionEnrolled requires enrollment in the subject and a batch match.
	InclusionEnrolled
	// InclusionDirect requires the exact code in the enrolled list and a batch match.
	InclusionDirect
)

// MarshalText encodes the inclusion rule by name.
func (i Inclusion) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i Inclusion) String() string {
	switch i {
	case InclusionElective:
		return "elective"
	case InclusionEnrolled:
		return "enrolled"
	case InclusionDirect:
		return "direct"
	default:
		return "batch"
	}
}

// TitleCase selects when all-caps subject names are rewritten in title case.
type TitleCase int

const (
	// TitleNever keeps names as they are.
	TitleNever TitleCase = iota
	// TitleUpper title-cases every all-caps name.
	TitleUpper
	// TitleUpperGuarded skips names of 3, 5 or 7 characters or fewer than 4,
	// which are usually codes rather than names.
	TitleUpperGuarded
)

// Apply returns name rewritten according to the policy.
func (t TitleCase) Apply(name string) string {
	trimmed := strings.TrimSpace(name)
	if t == TitleNever || !isAllCaps(trimmed) {
		return name
	}
	if t == TitleUpperGuarded {
		n := utf8.RuneCountInString(trimmed)
		if n <= 3 || n == 5 || n == 7 {
			return name
		}
	}
	return titleWords(trimmed)
}

// titleWords upper-cases the first letter of every run of letters and
// lower-cases the rest, so letters after digits or punctuation start a new
// word: "15B11CI513" becomes "15B11Ci513".
func titleWords(s string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for s != "" {
		i := strings.IndexFunc(s, unicode.IsLetter)
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		s = s[i:]
		j := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
		if j < 0 {
			j = len(s)
		}
		b.WriteString(caser.String(strings.ToLower(s[:j])))
		s = s[j:]
	}
	return b.String()
}

func isAllCaps(s string) bool {
	return s == strings.ToUpper(s) && s != strings.ToLower(s)
}

// Profile is the rule set for one campus and year band.
type Profile struct {
	Key         string         `json:"key" yaml:"key"`
	Campus      string         `json:"campus" yaml:"campus"`
	Band        string         `json:"band" yaml:"band"`
	Description string         `json:"description" yaml:"description"`
	Inclusion   Inclusion      `json:"inclusion" yaml:"inclusion"`
	Batches     batch.Expander `json:"-" yaml:"-"`
	Entry       entry.Options  `json:"-" yaml:"-"`
	TitleCase   TitleCase      `json:"-" yaml:"-"`

	// NonClassMarkers are substrings that mark an entry as a break.
	NonClassMarkers []string `json:"non_class_markers" yaml:"non_class_markers"`
}

// CampusSettings are the configurable parts of a campus.
type CampusSettings struct {
	DefaultBatches []string
	Aliases        []string
	AllowCustom    bool
}

// Settings configure the built-in profiles.
type Settings struct {
	Campuses        map[string]CampusSettings
	NonClassMarkers []string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Campuses: map[string]CampusSettings{
			"62":  {DefaultBatches: []string{"A", "B", "C", "D", "G", "H"}},
			"128": {DefaultBatches: []string{"E", "F", "H", "D"}, Aliases: []string{"ALL", "MINOR"}},
			"bca": {},
		},
		NonClassMarkers: []string{"LUNCH", "TALK"},
	}
}

type variant struct {
	campus, band, description string
	inclusion                 Inclusion
	titleCase                 TitleCase
}

var variants = []variant{
	{"62", BandFirst, "Sector 62, first year: electives by enrollment, core classes by batch", InclusionElective, TitleUpperGuarded},
	{"62", BandUpper, "Sector 62, upper years: enrolled subjects in the student's batch", InclusionEnrolled, TitleUpperGuarded},
	{"128", BandFirst, "Sector 128, first year: every class for the student's batch", InclusionBatch, TitleNever},
	{"128", BandUpper, "Sector 128, upper years: listed subject codes in the student's batch", InclusionDirect, TitleUpper},
	{"bca", BandFirst, "BCA, first year: every class for the student's batch", InclusionBatch, TitleNever},
	{"bca", BandUpper, "BCA, upper years: enrolled subjects in the student's batch", InclusionEnrolled, TitleNever},
}

// Campuses returns the campuses that have profiles, in registry order.
func Campuses() []string {
	var out []string
	for _, v := range variants {
		if !slices.Contains(out, v.campus) {
			out = append(out, v.campus)
		}
	}
	return out
}

// Year bands.
const (
	BandFirst = "1"
	BandUpper = "upper"
)

// ProfileKey returns the registry key for a campus and year.
// Any year other than "1" selects the upper band.
func ProfileKey(campus, year string) string {
	band := BandUpper
	if strings.TrimSpace(year) == BandFirst {
		band = BandFirst
	}
	return strings.ToLower(strings.TrimSpace(campus)) + "/" + band
}

// Registry holds the profiles built from settings.
// It supports hot-reload and provides thread-safe access.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	logger   *slog.Logger
}

// NewRegistry creates a registry populated from settings.
func NewRegistry(s Settings) *Registry {
	r := &Registry{logger: slog.Default()}
	r.Reload(s)
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Reload rebuilds every profile from settings.
func (r *Registry) Reload(s Settings) {
	profiles := make(map[string]Profile, len(variants))
	for _, v := range variants {
		cs := s.Campuses[v.campus]
		key := v.campus + "/" + v.band
		profiles[key] = Profile{
			Key:         key,
			Campus:      v.campus,
			Band:        v.band,
			Description: v.description,
			Inclusion:   v.inclusion,
			Batches: batch.Expander{
				Defaults: slices.Clone(cs.DefaultBatches),
				Aliases:  slices.Clone(cs.Aliases),
			},
			Entry:           entry.Options{AllowCustom: cs.AllowCustom},
			TitleCase:       v.titleCase,
			NonClassMarkers: slices.Clone(s.NonClassMarkers),
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = profiles
	if r.logger != nil {
		r.logger.Info("loaded schedule profiles", "count", len(profiles))
	}
}

// Lookup returns the profile for a campus and year.
func (r *Registry) Lookup(campus, year string) (Profile, error) {
	return r.Get(ProfileKey(campus, year))
}

// Get returns a profile by key.
func (r *Registry) Get(key string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, key)
	}
	return p, nil
}

// List returns all profiles ordered by key.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Profile) int { return strings.Compare(a.Key, b.Key) })
	return out
}
