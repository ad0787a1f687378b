package web

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"psp.com/xabiren-quiz/backend/internal/quiz"
)

var ErrSessionNotFound = errors.New("session not found")

// Entry is one user's session plus bookkeeping. Session is only touched
// while the entry is held through Store.With.
type Entry struct {
	ID      string
	Session *quiz.Session
	Started time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Store keeps every live session in memory, keyed by a random UUID.
// Idle sessions are dropped after ttl.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{entries: map[string]*Entry{}, ttl: ttl, now: time.Now}
}

// Add registers sess and returns its ID.
func (s *Store) Add(sess *quiz.Session) string {
	s.Sweep()

	now := s.now()
	e := &Entry{ID: uuid.NewString(), Session: sess, Started: now, lastSeen: now}
	s.mu.Lock()
	s.entries[e.ID] = e
	s.mu.Unlock()
	return e.ID
}

// With runs fn with exclusive access to the entry. Requests for the same
// session are serialised; different sessions proceed in parallel.
func (s *Store) With(id string, fn func(*Entry) error) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		e.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// Delete drops a session; it reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

// Sweep removes sessions idle for longer than the TTL and returns how
// many were dropped.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
