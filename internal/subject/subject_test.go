package subject

import (
	"testing"

	"github.com/jackzampolin/timetable/internal/types"
)

var catalog = Catalog{
	{Code: "CI513", FullCode: "15B11CI513", Name: "Software Engineering"},
	{Code: "MA211", FullCode: "18B11MA211", Name: "Mathematics-2"},
	{Code: "HS111/HS112", FullCode: "16B1NHS111", Name: "Economics"},
	{Code: "PH211", FullCode: "", Name: "Physics"},
}

func TestResolveName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"CI513", "Software Engineering"},
		{"15B11CI513", "Software Engineering"},
		{"15CI513", "Software Engineering"},
		{"11CI513", "Software Engineering"},
		{"B11CI513", "Software Engineering"},
		{"15B11CI513", "Software Engineering"},
		{"B11CI513", "Software Engineering"},
		{"I513", "Software Engineering"},
		{" MA211 ", "Mathematics-2"},
		{"H211", "Physics"},
		{"ZZ999", "ZZ999"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := catalog.ResolveName(tt.code); got != tt.want {
			t.Errorf("ResolveName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestResolveName_EmptyFullCodeDoesNotMatchEverything(t *testing.T) {
	c := Catalog{{Code: "X1", FullCode: "", Name: "X"}}
	if got := c.ResolveName("Q7"); got != "Q7" {
		t.Errorf("ResolveName(Q7) = %q, want Q7", got)
	}
}

func TestIsEnrolled(t *testing.T) {
	t.Run("direct membership", func(t *testing.T) {
		ok, s := catalog.IsEnrolled([]string{"CI513"}, "CI513")
		if !ok || s != nil {
			t.Errorf("IsEnrolled() = %v, %v, want true, nil", ok, s)
		}
	})

	t.Run("alias of enrolled subject", func(t *testing.T) {
		ok, s := catalog.IsEnrolled([]string{"CI513"}, "15B11CI513")
		if !ok || s == nil || s.Name != "Software Engineering" {
			t.Errorf("IsEnrolled() = %v, %v", ok, s)
		}
	})

	t.Run("slash code", func(t *testing.T) {
		ok, s := catalog.IsEnrolled([]string{"HS111/HS112"}, "HS111")
		if !ok || s == nil || s.Name != "Economics" {
			t.Errorf("IsEnrolled() = %v, %v", ok, s)
		}
	})

	t.Run("enrolled by full code", func(t *testing.T) {
		ok, s := catalog.IsEnrolled([]string{"18B11MA211"}, "MA211")
		if !ok || s == nil || s.Code != "MA211" {
			t.Errorf("IsEnrolled() = %v, %v", ok, s)
		}
	})

	t.Run("not enrolled", func(t *testing.T) {
		ok, s := catalog.IsEnrolled([]string{"MA211"}, "CI513")
		if ok || s != nil {
			t.Errorf("IsEnrolled() = %v, %v, want false, nil", ok, s)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		if ok, _ := catalog.IsEnrolled([]string{""}, ""); ok {
			t.Error("empty code should never be enrolled")
		}
	})
}

func TestIsElective(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		code     string
		expanded []string
		want     bool
	}{
		{"core exception", "A7-A8-A10", "X", []string{"A7", "A8", "A9", "A10"}, false},
		{"letters only", "ABC", "X", []string{"A", "B", "C"}, true},
		{"many batches", "A1-A5", "X", []string{"A1", "A2", "A3", "A4", "A5"}, true},
		{"blank", "", "X", []string{"A", "B"}, true},
		{"three C batches", "C1-C3", "MA101", []string{"C1", "C2", "C3"}, true},
		{"three C batches with B code", "C1-C3", "B11", []string{"C1", "C2", "C3"}, false},
		{"three C batches empty code", "C1,2,3", "", []string{"C1", "C2", "C3"}, true},
		{"three non-C batches", "A1-A3", "MA101", []string{"A1", "A2", "A3"}, false},
		{"single C batch", "C12", "MA101", []string{"C12"}, false},
		{"small core", "B3,4", "X", []string{"B3", "B4"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsElective(tt.spec, tt.code, tt.expanded); got != tt.want {
				t.Errorf("IsElective(%q, %q) = %v, want %v", tt.spec, tt.code, got, tt.want)
			}
		})
	}
}

func TestAliases(t *testing.T) {
	got := Aliases(types.Subject{Code: "CI513", FullCode: "15B11CI513"})
	want := []string{"15B11CI513", "15CI513", "11CI513", "B11CI513", "15B11CI513", "B11CI513", "11CI513", "I513"}
	if len(got) != len(want) {
		t.Fatalf("len(Aliases) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Aliases()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
