package knowledge

import (
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned by Query when no fact matches the key.
// It is distinct from a fact whose stored value happens to be empty.
var ErrNotFound = errors.New("fact not found")

// Store is an in-memory key/value fact table with case-insensitive keys.
// Writes are atomic per key; concurrent queries never observe a partial learn.
type Store struct {
	mu    sync.RWMutex
	facts map[string]string
}

func NewStore() *Store {
	return &Store{facts: make(map[string]string)}
}

// normalize folds a key for storage and lookup: lower-cased and trimmed.
func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Learn stores a fact. Re-learning the same key overwrites the old value.
func (s *Store) Learn(key, value string) {
	k := normalize(key)
	if k == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.facts[k] = strings.TrimSpace(value)
}

// Query looks up a fact by key. An exact match wins; otherwise the first
// stored key contained in (or containing) the query is returned. Misses
// return ErrNotFound.
func (s *Store) Query(key string) (string, error) {
	k := normalize(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if value, ok := s.facts[k]; ok {
		return value, nil
	}

	for stored, value := range s.facts {
		if strings.Contains(k, stored) || strings.Contains(stored, k) {
			return value, nil
		}
	}

	return "", ErrNotFound
}

// Facts returns a copy of everything the store knows.
func (s *Store) Facts() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(map[string]string, len(s.facts))
	for k, v := range s.facts {
		copied[k] = v
	}

	return copied
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.facts)
}
