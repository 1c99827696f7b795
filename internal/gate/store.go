package gate

import (
	"sync"
	"time"
)

// Store keys. The credential is security-sensitive: it is never served
// stale, and Decide always runs against a fresh read.
const (
	KeyCredential = "credential"
	KeyBranding   = "branding"
	KeyLastEvent  = "last_event"
)

type storeEntry struct {
	value    string
	storedAt time.Time
	ttl      time.Duration
}

// Store is a small TTL key-value store for device-local state. It is
// explicitly constructed and resettable, so tests never share state through
// globals.
type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]storeEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now, entries: make(map[string]storeEntry)}
}

// Put stores a value with a TTL. A zero TTL never expires.
func (s *Store) Put(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = storeEntry{value: value, storedAt: s.now(), ttl: ttl}
}

// Get returns a fresh value. Expired entries are treated as absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		return "", false
	}
	return entry.value, true
}

// GetStale returns a value even past its TTL, reporting whether it was
// stale, so screens can paint cached branding while revalidating. The
// credential key never serves stale: the authorization decision must always
// run on a fresh read.
func (s *Store) GetStale(key string) (value string, stale, ok bool) {
	if key == KeyCredential {
		value, ok = s.Get(key)
		return value, false, ok
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, present := s.entries[key]
	if !present {
		return "", false, false
	}
	return entry.value, s.expired(entry), true
}

// Delete removes a single key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// ClearSession wipes the credential and selection state. Run when the gate
// decides ClearCredential, before navigating to PROVISION.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, KeyCredential)
	delete(s.entries, KeyLastEvent)
}

// Reset empties the store.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]storeEntry)
}

func (s *Store) expired(entry storeEntry) bool {
	return entry.ttl > 0 && s.now().Sub(entry.storedAt) > entry.ttl
}
