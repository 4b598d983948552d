package clock

import (
	"reflect"
	"testing"
)

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MON", "Monday"},
		{" tues ", "Tuesday"},
		{"T", "Tuesday"},
		{"W", "Wednesday"},
		{"TH", "Thursday"},
		{"thurs", "Thursday"},
		{"F", "Friday"},
		{"SA", "Saturday"},
		{"S", "Saturday"},
		{"U", "Sunday"},
		{"holiday", "HOLIDAY"},
	}
	for _, tt := range tests {
		if got := NormalizeDay(tt.in); got != tt.want {
			t.Errorf("NormalizeDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortDays(t *testing.T) {
	days := []string{"Friday", "HOLIDAY", "Monday", "Wednesday"}
	SortDays(days)
	want := []string{"Monday", "Wednesday", "Friday", "HOLIDAY"}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("SortDays = %v, want %v", days, want)
	}
}
