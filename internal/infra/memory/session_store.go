package memory

import (
	"context"
	"sync"
	"time"

	"quote-quiz-service/internal/domain"
)

// pruneInterval bounds how often Save sweeps the map for idle sessions.
// Load checks expiry per entry, so a late sweep only delays freeing memory.
const pruneInterval = time.Minute

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions idle for longer than ttl are dropped; ttl <= 0 keeps them forever.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu        sync.Mutex
	sessions  map[string]storedSession
	lastPrune time.Time
}

type storedSession struct {
	state    domain.GameState
	lastSeen time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]storedSession),
	}
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok || s.expired(entry, s.clock()) {
		delete(s.sessions, sessionID)
		return domain.NewGameState(), nil
	}
	return entry.state, nil
}

func (s *SessionStore) Save(_ context.Context, sessionID string, state domain.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	if now.Sub(s.lastPrune) >= pruneInterval {
		s.pruneLocked(now)
	}
	s.sessions[sessionID] = storedSession{state: state, lastSeen: now}
	return nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.clock())
	return len(s.sessions)
}

func (s *SessionStore) pruneLocked(now time.Time) {
	s.lastPrune = now
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) expired(entry storedSession, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}
