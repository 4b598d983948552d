package schedule

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jackzampolin/timetable/internal/clock"
	"github.com/jackzampolin/timetable/internal/types"
)

// Comparison window: hourly slots from 08:00 to 17:00.
const (
	windowStart = 8
	windowEnd   = 17
)

// HourlySlots returns the slot keys of the comparison window.
func HourlySlots() []string {
	slots := make([]string, 0, windowEnd-windowStart)
	for h := windowStart; h < windowEnd; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00-%02d:00", h, h+1))
	}
	return slots
}

// Compare finds the hourly slots where both timetables are free and the
// slots where both attend the same class (same name, type and location).
// Days without any result are left out of each map.
func Compare(first, second types.PersonalizedTimetable) types.Comparison {
	result := types.Comparison{
		CommonFreeSlots: map[string][]string{},
		ClassesTogether: map[string]types.DaySchedule{},
	}

	days := slices.Collect(maps.Keys(first))
	for d := range second {
		if !slices.Contains(days, d) {
			days = append(days, d)
		}
	}
	clock.SortDays(days)

	for _, day := range days {
		a := Hourly(first[day])
		b := Hourly(second[day])
		var free []string
		together := types.DaySchedule{}
		for _, slot := range HourlySlots() {
			ca, inA := a[slot]
			cb, inB := b[slot]
			switch {
			case !inA && !inB:
				free = append(free, slot)
			case inA && inB && ca == cb:
				together[slot] = ca
			}
		}
		if len(free) > 0 {
			result.CommonFreeSlots[day] = free
		}
		if len(together) > 0 {
			result.ClassesTogether[day] = together
		}
	}
	return result
}

// Hourly splits multi-hour blocks into one-hour slots carrying the same
// class. Keys that are not canonical ranges, or span an hour or less, are
// kept as they are.
func Hourly(day types.DaySchedule) types.DaySchedule {
	out := types.DaySchedule{}
	keys := slices.Sorted(maps.Keys(day))
	for _, key := range keys {
		info := day[key]
		start, end, err := clock.SplitRangeKey(key)
		if err != nil || end.Sub(start) <= time.Hour {
			out[key] = info
			continue
		}
		for t := start; !t.Add(time.Hour).After(end); t = t.Add(time.Hour) {
			out[clock.RangeKey(t.Format("15:04"), t.Add(time.Hour).Format("15:04"))] = info
		}
	}
	return out
}
