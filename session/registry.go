package session

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is how long an unused session is kept.
const DefaultIdleTimeout = 30 * time.Minute

type entry struct {
	tracker  *Tracker
	lastSeen time.Time
}

// Registry maps session ids to trackers. Sessions idle for longer than the
// idle timeout are dropped on the next access.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	idle     time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry. A non-positive idle uses DefaultIdleTimeout.
func NewRegistry(idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		sessions: make(map[string]*entry),
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns the tracker for id, creating it if needed.
func (r *Registry) Get(id string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)

	e, ok := r.sessions[id]
	if !ok {
		e = &entry{tracker: NewTracker()}
		r.sessions[id] = e
	}
	e.lastSeen = now
	return e.tracker
}

// Lookup returns the tracker for id without creating one. Reads do not count
// as activity.
func (r *Registry) Lookup(id string) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(r.now())
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.tracker, true
}

// Drop removes a session.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.now())
	return len(r.sessions)
}

func (r *Registry) pruneLocked(now time.Time) {
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.sessions, id)
		}
	}
}
