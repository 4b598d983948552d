package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone checks must not depend on host zoneinfo

	"github.com/jackzampolin/timetable/internal/schedule"
)

var (
	// ErrUnknownSetting is returned for keys the configuration does not read.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidSetting is returned when a value has the wrong type or range.
	ErrInvalidSetting = errors.New("invalid setting value")
)

type valueKind int

const (
	kindText valueKind = iota
	kindPort
	kindCount
	kindDuration
	kindList
	kindFlag
	kindLevel
	kindZone
)

var settingKinds = map[string]valueKind{
	"server.host":           kindText,
	"server.port":           kindPort,
	"server.max_body_bytes": kindCount,
	"log.level":             kindLevel,
	"sessions.max_entries":  kindCount,
	"sessions.ttl":          kindDuration,
	"non_class_markers":     kindList,
	"export.timezone":       kindZone,
	"client.retries":        kindCount,
	"client.retry_delay":    kindDuration,
}

// campusKinds are the fields under campuses.<campus>.
var campusKinds = map[string]valueKind{
	"default_batches": kindList,
	"aliases":         kindList,
	"allow_custom":    kindFlag,
}

// CheckSetting reports whether value can be stored under key. Campus keys
// must name a campus with profiles; values are checked against the type
// the config struct decodes them into.
func CheckSetting(key string, value any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	kind, err := kindOf(key)
	if err != nil {
		return err
	}
	if err := checkValue(kind, value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
	}
	return nil
}

func kindOf(key string) (valueKind, error) {
	if kind, ok := settingKinds[key]; ok {
		return kind, nil
	}
	campus, field, ok := strings.Cut(strings.TrimPrefix(key, "campuses."), ".")
	if !ok || !strings.HasPrefix(key, "campuses.") {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	known := schedule.Campuses()
	if !containsFold(known, campus) {
		return 0, fmt.Errorf("%w: %s: no campus %q (have %s)", ErrUnknownSetting, key, campus, strings.Join(known, ", "))
	}
	kind, ok := campusKinds[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s: campuses have default_batches, aliases and allow_custom", ErrUnknownSetting, key)
	}
	return kind, nil
}

func checkValue(kind valueKind, value any) error {
	switch kind {
	case kindText:
		if s, ok := value.(string); !ok || strings.TrimSpace(s) == "" {
			return errors.New("want a non-empty string")
		}
	case kindPort:
		n, ok := wholeNumber(value)
		if !ok || n < 0 || n > math.MaxUint16 {
			return errors.New("want a port number")
		}
	case kindCount:
		if n, ok := wholeNumber(value); !ok || n <= 0 {
			return errors.New("want a positive whole number")
		}
	case kindDuration:
		s, _ := value.(string)
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return errors.New("want a positive duration such as 30m")
		}
	case kindList:
		items, ok := value.([]any)
		if !ok {
			if _, ok := value.([]string); ok {
				return nil
			}
			return errors.New("want a list of strings")
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return errors.New("want a list of strings")
			}
		}
	case kindFlag:
		if _, ok := value.(bool); !ok {
			return errors.New("want true or false")
		}
	case kindLevel:
		s, _ := value.(string)
		switch strings.ToLower(s) {
		case "debug", "info", "warn", "error":
		default:
			return errors.New("want debug, info, warn or error")
		}
	case kindZone:
		s, _ := value.(string)
		if _, err := time.LoadLocation(s); err != nil || s == "" {
			return errors.New("want an IANA time zone such as Asia/Kolkata")
		}
	}
	return nil
}

// wholeNumber accepts the integer forms JSON and YAML decoding produce,
// and numeric strings.
func wholeNumber(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	case float64:
		return int64(v), v == math.Trunc(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
