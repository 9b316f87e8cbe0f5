package bill

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry keeps one Session per client. Sessions live for as long as their
// client keeps using them: a session idle for longer than the TTL is
// evicted by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time

	// OnEvict, if set, is called with the number of sessions removed by a sweep.
	OnEvict func(n int)
}

// NewRegistry creates a registry evicting sessions idle for longer than ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new empty session and returns its ID.
func (r *Registry) Create() (string, *Session) {
	id := uuid.New().String()
	s := NewSession()

	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastSeen: r.now()}
	r.mu.Unlock()

	return id, s
}

// Get returns the session with the given ID and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.expired(e) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	n := 0
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
			n++
		}
	}
	r.mu.Unlock()

	if n > 0 && r.OnEvict != nil {
		r.OnEvict(n)
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Debug("Evicted idle sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}

func (r *Registry) expired(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}
