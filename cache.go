package easyapi

import (
	"slices"
	"sync"
	"time"
)

// Entry is a cached operation result. Entries are replaced wholesale,
// never mutated.
type Entry struct {
	Value    any
	StoredAt time.Time
}

// LookupResult describes the outcome of Store.Lookup.
type LookupResult int

const (
	// LookupMiss means no entry exists for the key.
	LookupMiss LookupResult = iota
	// LookupHit means a fresh entry was found.
	LookupHit
	// LookupExpired means an entry existed but was older than the TTL.
	// It has been removed.
	LookupExpired
)

func (r LookupResult) String() string {
	switch r {
	case LookupHit:
		return "hit"
	case LookupExpired:
		return "expired"
	default:
		return "miss"
	}
}

// Store maps cache keys to entries. It is shared by every orchestrator it is
// handed to and lives as long as its owner keeps it. Entries are removed only
// when a read finds them expired or on explicit Delete/Clear.
//
// A Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Lookup returns the entry for key if it is younger than ttl at now.
// A ttl of zero means entries never expire. Expired entries are deleted
// in the same critical section that detected them.
func (s *Store) Lookup(key string, ttl time.Duration, now time.Time) (Entry, LookupResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return Entry{}, LookupMiss
	}
	if ttl > 0 && now.Sub(ent.StoredAt) >= ttl {
		delete(s.entries, key)
		return Entry{}, LookupExpired
	}
	return ent, LookupHit
}

// Get returns the entry for key regardless of age.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entries[key]
	return ent, ok
}

// Set stores value under key, overwriting any existing entry.
func (s *Store) Set(key string, value any, at time.Time) {
	s.mu.Lock()
	s.entries[key] = Entry{Value: value, StoredAt: at}
	s.mu.Unlock()
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	clear(s.entries)
	s.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.Unlock()
	slices.Sort(keys)
	return keys
}
