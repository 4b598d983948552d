// Package session keeps uploaded timetables between requests so clients can
// build several personalized timetables from one upload. Each upload gets
// its own ID; nothing is shared between sessions.
package session

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2"

	"github.com/jackzampolin/timetable/internal/types"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Defaults used when Config leaves a field zero.
const (
	DefaultMaxEntries = 256
	DefaultTTL        = 6 * time.Hour
)

// Upload is one stored timetable upload.
type Upload struct {
	ID        string             `json:"sessionId" yaml:"session_id"`
	Campus    string             `json:"campus" yaml:"campus"`
	Year      string             `json:"year" yaml:"year"`
	Timetable types.RawTimetable `json:"timeTable" yaml:"-"`
	Subjects  []types.Subject    `json:"subjects" yaml:"subjects"`
	CreatedAt time.Time          `json:"createdAt" yaml:"created_at"`
}

// Config configures a Store.
type Config struct {
	MaxEntries int
	TTL        time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is a bounded, expiring set of uploads. The least recently used
// upload is evicted when the store is full.
type Store struct {
	cache *lru.Cache[string, *Upload]
	ttl   atomic.Int64 // time.Duration
	now   func() time.Time
}

// NewStore creates a Store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cache, err := lru.New[string, *Upload](cfg.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	s := &Store{cache: cache, now: cfg.Now}
	s.ttl.Store(int64(cfg.TTL))
	return s, nil
}

// Create stores an upload under a new ID and returns the stored copy.
func (s *Store) Create(campus, year string, tt types.RawTimetable, subjects []types.Subject) *Upload {
	u := &Upload{
		ID:        uuid.NewString(),
		Campus:    campus,
		Year:      year,
		Timetable: tt,
		Subjects:  subjects,
		CreatedAt: s.now(),
	}
	s.cache.Add(u.ID, u)
	return u
}

// Get returns an upload by ID. Expired uploads are removed and reported
// as not found.
func (s *Store) Get(id string) (*Upload, error) {
	u, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.now().Sub(u.CreatedAt) > s.TTL() {
		s.cache.Remove(id)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return u, nil
}

// Delete removes an upload.
func (s *Store) Delete(id string) error {
	if !s.cache.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Len returns the number of stored uploads, expired ones included until
// they are next touched.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Resize changes the capacity, evicting the oldest uploads if needed.
func (s *Store) Resize(size int) int {
	if size <= 0 {
		size = DefaultMaxEntries
	}
	return s.cache.Resize(size)
}

// TTL returns how long uploads stay usable.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// SetTTL changes how long uploads stay usable. It applies to stored
// uploads too, measured from their creation.
func (s *Store) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.ttl.Store(int64(ttl))
}
