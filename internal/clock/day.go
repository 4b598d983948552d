package clock

import (
	"slices"
	"strings"
)

// Weekdays lists full day names in week order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var dayAliases = map[string]string{
	"MON": "Monday", "M": "Monday", "MONDAY": "Monday",
	"TUES": "Tuesday", "TUE": "Tuesday", "T": "Tuesday", "TUESDAY": "Tuesday",
	"WED": "Wednesday", "W": "Wednesday", "WEDNESDAY": "Wednesday",
	"THUR": "Thursday", "THURS": "Thursday", "THURSDAY": "Thursday", "THU": "Thursday", "TH": "Thursday",
	"FRI": "Friday", "FRIDAY": "Friday", "F": "Friday",
	"SAT": "Saturday", "S": "Saturday", "SA": "Saturday", "SATURDAY": "Saturday", "SATUR": "Saturday",
	"SUN": "Sunday", "SU": "Sunday", "U": "Sunday", "SUNDAY": "Sunday",
}

// NormalizeDay maps a day label to its full name. Unknown labels are
// returned trimmed and upper-cased.
func NormalizeDay(label string) string {
	key := strings.ToUpper(strings.TrimSpace(label))
	if day, ok := dayAliases[key]; ok {
		return day
	}
	return key
}

// DayIndex returns the position of a full day name in the week, or
// len(Weekdays) for unknown names so they sort last.
func DayIndex(day string) int {
	if i := slices.Index(Weekdays, day); i >= 0 {
		return i
	}
	return len(Weekdays)
}

// SortDays orders day names by week position, unknown names last by name.
func SortDays(days []string) {
	slices.SortFunc(days, func(a, b string) int {
		if ia, ib := DayIndex(a), DayIndex(b); ia != ib {
			return ia - ib
		}
		return strings.Compare(a, b)
	})
}
