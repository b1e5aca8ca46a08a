package conversation

import (
	"sync"
	"time"
)

// Context is one user's conversational state carried across turns.
// PendingIntent is set when the bot is waiting for a missing entity;
// Entities accumulates values collected so far.
type Context struct {
	PendingIntent string
	Entities      map[string]string
	LastActive    time.Time
	Turns         int
}

// Pending reports whether a multi-turn flow is waiting for more input.
func (c Context) Pending() bool {
	return c.PendingIntent != ""
}

// Entity returns a collected value and whether it is present. Absent means
// "not yet known"; the entity map never holds empty values.
func (c Context) Entity(name string) (string, bool) {
	value, ok := c.Entities[name]
	return value, ok
}

// entry pairs a user's context with its locks. turn serializes whole
// conversation turns for the user; mu guards the data itself so that
// Sweep can inspect entries without joining the turn queue.
type entry struct {
	turn sync.Mutex
	mu   sync.Mutex
	data Context
}

func (e *entry) fresh(now time.Time) {
	e.data = Context{
		Entities:   make(map[string]string),
		LastActive: now,
	}
}

func (e *entry) expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(e.data.LastActive) > timeout
}
