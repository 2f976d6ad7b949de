package services

import (
	"sync"
	"time"
)

type sessionEntry struct {
	session  *FormSession
	lastSeen time.Time
}

// SessionStore keeps one FormSession per browser session. Sessions never share
// a draft; an evicted session simply mounts a fresh, empty form next time.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	idle     time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store that evicts sessions idle for longer than idle.
func NewSessionStore(idle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		idle:     idle,
		now:      time.Now,
	}
}

// Open returns the session for id, mounting an empty form on first use.
func (s *SessionStore) Open(id string) *FormSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &sessionEntry{session: NewFormSession(id)}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e.session
}

// Get looks a session up without creating or touching it.
func (s *SessionStore) Get(id string) (*FormSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops idle sessions and returns how many were removed. A session with
// a submission in flight is kept until it resolves.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idle)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.After(cutoff) || e.session.Busy() {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// SetClock replaces the time source. Used by tests.
func (s *SessionStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
