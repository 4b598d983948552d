// Package export writes personalized timetables as iCalendar feeds with one
// weekly recurring event per class.
package export

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"
	_ "time/tzdata" // campus time zones must load on hosts without zoneinfo

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/jackzampolin/timetable/internal/clock"
	"github.com/jackzampolin/timetable/internal/types"
)

// DefaultTimezone is the zone class times are interpreted in.
const DefaultTimezone = "Asia/Kolkata"

// ErrInvalidTerm is returned when the term end precedes its start.
var ErrInvalidTerm = errors.New("term end before start")

// Options configure an export.
type Options struct {
	// Start is the first day of term; each class starts on its first
	// weekday on or after it.
	Start time.Time
	// End is the last day of term; recurrences stop at its end.
	End time.Time
	// Location is the zone class times are in. Defaults to DefaultTimezone.
	Location *time.Location
	// Prefix is prepended to each event summary.
	Prefix string
	// Now stamps the events. Defaults to time.Now.
	Now func() time.Time
}

// Result summarizes an export.
type Result struct {
	Events  int `json:"events" yaml:"events"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// LoadLocation loads a zone by name, falling back to DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone %q: %w", name, err)
	}
	return loc, nil
}

// WriteICS writes tt as an iCalendar feed. Unknown day names and ranges
// that are not canonical or not increasing (including the 00:00-00:00
// placeholder) are skipped and counted.
func WriteICS(w io.Writer, tt types.PersonalizedTimetable, opts Options) (Result, error) {
	var res Result
	if opts.Location == nil {
		loc, err := LoadLocation("")
		if err != nil {
			return res, err
		}
		opts.Location = loc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	termStart := dateIn(opts.Start, opts.Location)
	termEnd := dateIn(opts.End, opts.Location).AddDate(0, 0, 1).Add(-time.Second)
	if termEnd.Before(termStart) {
		return res, fmt.Errorf("%w: %s < %s", ErrInvalidTerm, opts.End.Format(time.DateOnly), opts.Start.Format(time.DateOnly))
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timetable//personalized timetable//EN")

	days := slices.Collect(maps.Keys(tt))
	clock.SortDays(days)
	stamp := opts.Now()

	for _, day := range days {
		weekday, ok := weekdayOf(day)
		if !ok {
			res.Skipped += len(tt[day])
			continue
		}
		first := firstOn(termStart, weekday)
		for _, key := range slices.Sorted(maps.Keys(tt[day])) {
			start, end, err := clock.SplitRangeKey(key)
			if err != nil || !end.After(start) {
				res.Skipped++
				continue
			}
			startAt := at(first, start, opts.Location)
			if startAt.After(termEnd) {
				res.Skipped++
				continue
			}
			info := tt[day][key]

			event := cal.AddEvent(eventID(day, key, info))
			event.SetCreatedTime(stamp)
			event.SetDtStampTime(stamp)
			event.SetStartAt(startAt)
			event.SetEndAt(at(first, end, opts.Location))
			event.SetSummary(Summary(opts.Prefix, info))
			if info.Location != "" {
				event.SetLocation(info.Location)
			}
			event.SetDescription(fmt.Sprintf("Type: %s", info.Type.Label()))
			event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;UNTIL="+termEnd.UTC().Format("20060102T150405Z"))
			res.Events++
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return res, fmt.Errorf("failed to write calendar: %w", err)
	}
	return res, nil
}

// Summary is the event title: prefix and subject name, with the session
// type appended for anything other than a lecture.
func Summary(prefix string, info types.ClassInfo) string {
	title := prefix + info.SubjectName
	if info.Type != "" && info.Type != types.SessionLecture {
		title += " (" + info.Type.Label() + ")"
	}
	return title
}

// eventID is stable for the same class so re-imports update events.
func eventID(day, key string, info types.ClassInfo) string {
	name := fmt.Sprintf("%s|%s|%s|%s|%s", day, key, info.SubjectName, info.Type, info.Location)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@timetable"
}

func weekdayOf(day string) (time.Weekday, bool) {
	i := clock.DayIndex(day)
	if i >= len(clock.Weekdays) {
		return 0, false
	}
	// Weekdays starts on Monday.
	return time.Weekday((i + 1) % 7), true
}

func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func firstOn(from time.Time, wd time.Weekday) time.Time {
	return from.AddDate(0, 0, (int(wd)-int(from.Weekday())+7)%7)
}

func at(day, clockTime time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clockTime.Hour(), clockTime.Minute(), 0, 0, loc)
}
