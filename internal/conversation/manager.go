package conversation

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a context survives without activity.
const DefaultTimeout = 5 * time.Minute

// Manager owns every conversation context and is its sole mutator.
// Contexts are created lazily per user id, expire after the inactivity
// timeout, and are handed out only as copies.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry
	timeout time.Duration
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Manager{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// lookup returns the entry for a user, creating it under the write lock
// if needed. Double-checked so concurrent first messages race safely.
func (m *Manager) lookup(userID string) *entry {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()

	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok = m.entries[userID]; ok {
		return e
	}

	e = &entry{}
	e.fresh(time.Now())
	m.entries[userID] = e

	return e
}

// Begin acquires the per-user turn lock. Two concurrent messages from the
// same user are serialized here so their read-merge-write never interleaves.
// The entry is revalidated after locking in case a sweep removed it while
// this turn was queued.
func (m *Manager) Begin(userID string) {
	for {
		e := m.lookup(userID)
		e.turn.Lock()

		m.mu.RLock()
		current := m.entries[userID]
		m.mu.RUnlock()

		if current == e {
			return
		}

		e.turn.Unlock()
	}
}

// End releases the per-user turn lock.
func (m *Manager) End(userID string) {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()

	if ok {
		e.turn.Unlock()
	}
}

// GetOrCreate returns a copy of the user's context. A context idle past the
// timeout is discarded and replaced with a fresh empty one; callers never
// see stale state.
func (m *Manager) GetOrCreate(userID string) Context {
	e := m.lookup(userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if e.expired(now, m.timeout) {
		e.fresh(now)
	}

	return snapshot(e.data)
}

// Update merges entities into the user's context and refreshes its activity
// timestamp. Non-empty values override same-named keys; keys absent from the
// new set survive. A non-empty intent replaces the pending one, otherwise
// the previous pending intent is retained.
func (m *Manager) Update(userID, intent string, entities map[string]string) {
	e := m.lookup(userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if e.expired(now, m.timeout) {
		e.fresh(now)
	}

	if intent != "" {
		e.data.PendingIntent = intent
	}

	for name, value := range entities {
		if value == "" {
			continue
		}
		e.data.Entities[name] = value
	}

	e.data.LastActive = now
	e.data.Turns++
}

// Clear resets the user's context to its initial empty state. Called after
// a skill runs so stale entities don't leak into unrelated future turns.
func (m *Manager) Clear(userID string) {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()

	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.fresh(time.Now())
}

// Sweep removes every context idle past the timeout and reports how many
// were purged. A context whose turn lock is held by an in-flight message is
// left alone; the next sweep will catch it if it is still stale.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for userID, e := range m.entries {
		if !e.turn.TryLock() {
			continue
		}

		e.mu.Lock()
		stale := e.expired(now, m.timeout)
		e.mu.Unlock()
		e.turn.Unlock()

		if stale {
			delete(m.entries, userID)
			purged++
		}
	}

	return purged
}

// Len reports how many contexts are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Timeout reports the inactivity timeout in effect.
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

func snapshot(c Context) Context {
	copied := make(map[string]string, len(c.Entities))
	for k, v := range c.Entities {
		copied[k] = v
	}

	c.Entities = copied

	return c
}
