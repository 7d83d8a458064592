package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionIdleTimeout is how long an untouched screen session survives.
const sessionIdleTimeout = 30 * time.Minute

// session is one attached presenter kept alive between requests.
type session interface {
	// detach unbinds the presenter. It must run on the UI loop.
	detach()
}

type sessionEntry[S session] struct {
	value   S
	mu      sync.Mutex
	touched time.Time
}

// sessionStore keeps screen sessions keyed by random UUIDs.
type sessionStore[S session] struct {
	mu    sync.Mutex
	items map[uuid.UUID]*sessionEntry[S]
	now   func() time.Time
}

func newSessionStore[S session]() *sessionStore[S] {
	return &sessionStore[S]{
		items: make(map[uuid.UUID]*sessionEntry[S]),
		now:   time.Now,
	}
}

func (s *sessionStore[S]) add(v S) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.items[id] = &sessionEntry[S]{value: v, touched: s.now()}
	return id
}

// acquire locks the session for one request. The returned release must be
// called when the request is done.
func (s *sessionStore[S]) acquire(raw string) (S, func(), bool) {
	var zero S
	id, err := uuid.Parse(raw)
	if err != nil {
		return zero, nil, false
	}

	s.mu.Lock()
	entry, ok := s.items[id]
	if ok {
		entry.touched = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return zero, nil, false
	}

	entry.mu.Lock()
	return entry.value, entry.mu.Unlock, true
}

func (s *sessionStore[S]) remove(raw string) (S, bool) {
	var zero S
	id, err := uuid.Parse(raw)
	if err != nil {
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[id]
	if !ok {
		return zero, false
	}
	delete(s.items, id)
	return entry.value, true
}

// expire removes and returns sessions idle for longer than idle.
func (s *sessionStore[S]) expire(idle time.Duration) []S {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	var out []S
	for id, entry := range s.items {
		if entry.touched.Before(cutoff) {
			out = append(out, entry.value)
			delete(s.items, id)
		}
	}
	return out
}

// values returns the stored sessions without locking them. Callers must only
// touch them on the UI loop.
func (s *sessionStore[S]) values() []S {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]S, 0, len(s.items))
	for _, entry := range s.items {
		out = append(out, entry.value)
	}
	return out
}

// removeAll empties the store.
func (s *sessionStore[S]) removeAll() []S {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]S, 0, len(s.items))
	for id, entry := range s.items {
		out = append(out, entry.value)
		delete(s.items, id)
	}
	return out
}

func (s *sessionStore[S]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
