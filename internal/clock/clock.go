// Package clock normalizes free-form slot labels and day names found in
// campus timetables into canonical 24-hour ranges and full weekday names.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackzampolin/timetable/internal/types"
)

// Midnight is returned for both ends of a slot that cannot be parsed.
const Midnight = "00:00"

// ErrMalformedRange is returned by ParseRange for unparseable slot labels.
var ErrMalformedRange = errors.New("malformed time range")

// NormalizeRange converts a raw slot label such as "9 -9.50 AM" into
// canonical 24-hour start and end times. Practical sessions run one hour
// longer. Malformed labels degrade to ("00:00", "00:00").
func NormalizeRange(raw string, session types.SessionType) (start, end string) {
	start, end, err := ParseRange(raw, session)
	if err != nil {
		return Midnight, Midnight
	}
	return start, end
}

// ParseRange is NormalizeRange with the parse error surfaced.
//
// Sides without AM/PM are guessed: hours before 7 are afternoon. The start
// side keeps its dots while the end side accepts "9.50" for "9:50". A
// start of midnight becomes noon, and ends on the fiftieth minute round up
// to the next hour.
func ParseRange(raw string, session types.SessionType) (string, string, error) {
	s := strings.ToUpper(raw)
	s = strings.ReplaceAll(s, "12 NOON", "12:00 PM")
	s = strings.ReplaceAll(s, "NOON", "12:00 PM")

	startRaw, endRaw, ok := strings.Cut(s, "-")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no separator", ErrMalformedRange, raw)
	}
	startRaw = strings.TrimSpace(startRaw)
	endRaw = strings.ReplaceAll(strings.TrimSpace(endRaw), ".", ":")

	startRaw, err := withMeridiem(startRaw)
	if err != nil {
		return "", "", fmt.Errorf("%w: start of %q: %v", ErrMalformedRange, raw, err)
	}
	endRaw, err = withMeridiem(endRaw)
	if err != nil {
		return "", "", fmt.Errorf("%w: end of %q: %v", ErrMalformedRange, raw, err)
	}

	start, err := to24(startRaw)
	if err != nil {
		return "", "", fmt.Errorf("%w: start of %q: %v", ErrMalformedRange, raw, err)
	}
	end, err := to24(endRaw)
	if err != nil {
		return "", "", fmt.Errorf("%w: end of %q: %v", ErrMalformedRange, raw, err)
	}

	if session == types.SessionPractical {
		end = end.Add(time.Hour)
	}

	startStr := start.Format("15:04")
	if startStr == Midnight {
		startStr = "12:00"
	}
	endStr := end.Format("15:04")
	if end.Minute() == 50 {
		endStr = fmt.Sprintf("%02d:00", (end.Hour()+1)%24)
	}
	return startStr, endStr, nil
}

// ShiftHour moves the hour of a canonical "HH:MM" time by n, wrapping at 24.
func ShiftHour(hhmm string, n int) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", ((t.Hour()+n)%24+24)%24, t.Minute()), nil
}

// withMeridiem appends AM or PM to a side that has neither.
func withMeridiem(side string) (string, error) {
	if strings.Contains(side, "AM") || strings.Contains(side, "PM") {
		return side, nil
	}
	hourPart, _, _ := strings.Cut(side, ":")
	hourPart = strings.TrimSpace(hourPart)
	if len(hourPart) == 1 {
		side = "0" + side
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return "", err
	}
	if hour < 7 {
		return side + " PM", nil
	}
	return side + " AM", nil
}

func to24(side string) (time.Time, error) {
	side = strings.ReplaceAll(side, " ", "")
	if !strings.Contains(side, ":") {
		for _, m := range []string{"AM", "PM"} {
			if i := strings.Index(side, m); i >= 0 {
				side = side[:i] + ":00" + side[i:]
				break
			}
		}
	}
	t, err := time.Parse("3:04PM", side)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// RangeKey joins a start and end time into a schedule key.
func RangeKey(start, end string) string {
	return start + "-" + end
}

// SplitRangeKey splits a "HH:MM-HH:MM" key and parses both ends.
func SplitRangeKey(key string) (start, end time.Time, err error) {
	a, b, ok := strings.Cut(key, "-")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrMalformedRange, key)
	}
	if start, err = time.Parse("15:04", strings.TrimSpace(a)); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = time.Parse("15:04", strings.TrimSpace(b)); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
