package session

import (
	"errors"
	"testing"
	"time"

	"github.com/jackzampolin/timetable/internal/types"
)

func TestStore(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	s, err := NewStore(Config{MaxEntries: 2, TTL: time.Hour, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	tt := types.RawTimetable{{Day: "MON"}}
	subjects := []types.Subject{{Code: "X"}}

	t.Run("create and get", func(t *testing.T) {
		u := s.Create("62", "1", tt, subjects)
		if u.ID == "" {
			t.Fatal("Create returned empty ID")
		}
		got, err := s.Get(u.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Campus != "62" || len(got.Timetable) != 1 || len(got.Subjects) != 1 {
			t.Errorf("Get() = %+v", got)
		}
	})

	t.Run("distinct ids", func(t *testing.T) {
		a := s.Create("62", "1", tt, nil)
		b := s.Create("62", "1", tt, nil)
		if a.ID == b.ID {
			t.Error("two uploads share an ID")
		}
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		a := s.Create("128", "2", tt, nil)
		s.Create("128", "2", tt, nil)
		s.Create("128", "2", tt, nil)
		if _, err := s.Get(a.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(evicted) error = %v, want ErrNotFound", err)
		}
		if s.Len() != 2 {
			t.Errorf("Len() = %d, want 2", s.Len())
		}
	})

	t.Run("expires", func(t *testing.T) {
		u := s.Create("bca", "1", tt, nil)
		now = now.Add(2 * time.Hour)
		if _, err := s.Get(u.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		u := s.Create("bca", "1", tt, nil)
		if err := s.Delete(u.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete(u.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestNewStore_Defaults(t *testing.T) {
	s, err := NewStore(Config{})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if s.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", s.TTL(), DefaultTTL)
	}
	if evicted := s.Resize(0); evicted != 0 {
		t.Errorf("Resize(0) evicted %d, want 0", evicted)
	}
}

func TestStore_SetTTL(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	s, err := NewStore(Config{TTL: 6 * time.Hour, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	u := s.Create("62", "1", nil, nil)
	now = now.Add(2 * time.Hour)

	s.SetTTL(3 * time.Hour)
	if _, err := s.Get(u.ID); err != nil {
		t.Fatalf("Get() with longer TTL error = %v", err)
	}

	s.SetTTL(time.Hour)
	if s.TTL() != time.Hour {
		t.Errorf("TTL() = %v, want 1h", s.TTL())
	}
	if _, err := s.Get(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after shorter TTL error = %v, want ErrNotFound", err)
	}

	s.SetTTL(0)
	if s.TTL() != DefaultTTL {
		t.Errorf("SetTTL(0) gave %v, want %v", s.TTL(), DefaultTTL)
	}
}
