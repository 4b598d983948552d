// Package schedule assembles personalized timetables from raw campus grids
// and compares two assembled timetables.
//
// Every campus and year band runs the same algorithm. A Profile selects the
// default batch set, the inclusion rule and the naming policy.
package schedule

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/jackzampolin/timetable/internal/clock"
	"github.com/jackzampolin/timetable/internal/entry"
	"github.com/jackzampolin/timetable/internal/subject"
	"github.com/jackzampolin/timetable/internal/types"
)

// extendedLabNames are subjects whose lab runs one hour past its slot.
var extendedLabNames = []string{
	"ENGINEERING DRAWING AND DESIGN",
	"Engineering Drawing & Design",
}

// Stats describe what happened to the entries of one assembly.
type Stats struct {
	Entries  int `json:"entries" yaml:"entries"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Included int `json:"included" yaml:"included"`
	Degraded int `json:"degraded" yaml:"degraded"`
	Placed   int `json:"placed" yaml:"placed"`
}

// Assembler builds personalized timetables for one profile and subject directory.
type Assembler struct {
	profile Profile
	catalog subject.Catalog
	logger  *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for per-entry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssembler creates an assembler for a profile and subject directory.
func NewAssembler(p Profile, subjects []types.Subject, opts ...Option) *Assembler {
	a := &Assembler{
		profile: p,
		catalog: subject.Catalog(slices.Clone(subjects)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// placement is an included entry before its day and time are canonicalized.
type placement struct {
	day, rawTime string
	name         string
	session      types.SessionType
	location     string
}

// Assemble returns the student's timetable. Entries are placed in source
// order; a later entry at the same day and range replaces an earlier one.
// Slot labels that cannot be parsed are placed at 00:00-00:00 and counted
// in Stats.Degraded.
func (a *Assembler) Assemble(raw types.RawTimetable, student types.StudentContext) (types.PersonalizedTimetable, Stats) {
	var stats Stats
	var placements []placement

	for _, day := range raw {
		for _, slot := range day.Slots {
			for _, text := range slot.Entries {
				stats.Entries++
				text = strings.TrimSpace(text)
				if text == "" || entry.IsNonClass(text, a.profile.NonClassMarkers) {
					stats.Skipped++
					continue
				}
				pc := entry.Parse(text, a.profile.Entry)
				name, ok := a.include(pc, student)
				if !ok {
					continue
				}
				stats.Included++
				placements = append(placements, placement{
					day:      day.Day,
					rawTime:  slot.Time,
					name:     name,
					session:  pc.SessionType,
					location: pc.Location,
				})
			}
		}
	}

	out := types.PersonalizedTimetable{}
	for _, p := range placements {
		day := clock.NormalizeDay(p.day)
		start, end, err := clock.ParseRange(p.rawTime, p.session)
		if err != nil {
			stats.Degraded++
			a.logger.Debug("unparseable time slot", "profile", a.profile.Key, "day", p.day, "slot", p.rawTime, "error", err)
			start, end = clock.Midnight, clock.Midnight
		}
		if isExtendedLab(p.name) {
			if shifted, err := clock.ShiftHour(end, 1); err == nil {
				end = shifted
			}
		}
		if out[day] == nil {
			out[day] = types.DaySchedule{}
		}
		out[day][clock.RangeKey(start, end)] = types.ClassInfo{
			SubjectName: a.profile.TitleCase.Apply(p.name),
			Type:        p.session,
			Location:    p.location,
		}
	}
	for _, d := range out {
		stats.Placed += len(d)
	}

	a.logger.Debug("assembled timetable",
		"profile", a.profile.Key,
		"entries", stats.Entries,
		"included", stats.Included,
		"placed", stats.Placed,
		"degraded", stats.Degraded)
	return out, stats
}

// include decides whether an entry belongs to the student and returns the
// display name to use for it.
func (a *Assembler) include(pc types.ParsedClass, student types.StudentContext) (string, bool) {
	batches := a.profile.Batches
	inBatch := batches.Included(student.Batch, pc.BatchSpec)

	switch a.profile.Inclusion {
	case InclusionElective:
		expanded := batches.Expand(pc.BatchSpec)
		if subject.IsElective(pc.BatchSpec, pc.SubjectCode, expanded) {
			if ok, _ := a.catalog.IsEnrolled(student.EnrolledSubjectCodes, pc.SubjectCode); !ok {
				return "", false
			}
		}
		if !inBatch {
			return "", false
		}
		return a.catalog.ResolveName(pc.SubjectCode), true

	case InclusionEnrolled:
		ok, s := a.catalog.IsEnrolled(student.EnrolledSubjectCodes, pc.SubjectCode)
		if !ok || !inBatch {
			return "", false
		}
		if s != nil {
			return s.Name, true
		}
		return a.catalog.ResolveName(pc.SubjectCode), true

	case InclusionDirect:
		if !slices.Contains(student.EnrolledSubjectCodes, pc.SubjectCode) || !inBatch {
			return "", false
		}
		return a.catalog.ResolveName(pc.SubjectCode), true

	default:
		if !inBatch {
			return "", false
		}
		return a.catalog.ResolveName(pc.SubjectCode), true
	}
}

func isExtendedLab(name string) bool {
	return slices.Contains(extendedLabNames, strings.TrimSpace(name))
}
