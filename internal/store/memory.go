package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/farm-advisor/internal/weather"
)

// ErrNotFound is returned when no tracked snapshot matches a location or range.
var ErrNotFound = errors.New("no weather data for location")

// history holds a time-ordered list of snapshots for one location.
type history struct {
	loc       weather.Location
	snapshots []weather.WeatherSnapshot
}

// MemoryStore keeps tracked weather snapshots in memory, bounded per location
// by count and age. It satisfies weather.Store and is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*history

	maxHistory int           // 0 = unlimited
	maxAge     time.Duration // 0 = unlimited
	now        func() time.Time
}

var _ weather.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore. Non-positive limits disable that bound.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*history),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot appends snapshot for loc and enforces retention. Snapshots
// arriving out of order are inserted at their timestamp.
func (s *MemoryStore) SaveSnapshot(loc weather.Location, snapshot weather.WeatherSnapshot) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.data[key]
	if !ok {
		h = &history{loc: loc}
		s.data[key] = h
	}

	i := sort.Search(len(h.snapshots), func(i int) bool {
		return h.snapshots[i].Timestamp.After(snapshot.Timestamp)
	})
	h.snapshots = append(h.snapshots, weather.WeatherSnapshot{})
	copy(h.snapshots[i+1:], h.snapshots[i:])
	h.snapshots[i] = snapshot

	if s.maxHistory > 0 && len(h.snapshots) > s.maxHistory {
		h.snapshots = h.snapshots[len(h.snapshots)-s.maxHistory:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		stale := sort.Search(len(h.snapshots), func(i int) bool {
			return !h.snapshots[i].Timestamp.Before(cutoff)
		})
		h.snapshots = h.snapshots[stale:]
	}

	if len(h.snapshots) == 0 {
		delete(s.data, key)
	}
}

// GetLatest returns the most recent snapshot for loc.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[loc.Key()]
	if !ok || len(h.snapshots) == 0 {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return h.snapshots[len(h.snapshots)-1], nil
}

// GetRange returns snapshots for loc with from <= Timestamp <= to, oldest first.
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[loc.Key()]
	if !ok || len(h.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.WeatherSnapshot
	for _, snap := range h.snapshots {
		if !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Locations lists every location with at least one snapshot, sorted by key.
func (s *MemoryStore) Locations() []weather.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locs := make([]weather.Location, 0, len(s.data))
	for _, h := range s.data {
		locs = append(locs, h.loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Key() < locs[j].Key() })
	return locs
}
