package session

import (
	"context"
	"sync"
	"time"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/clock"
)

// MemoryStore keeps sessions in process memory. It backs tests and
// single-instance development runs; production uses RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	clock    clock.Clocker
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(clk clock.Clocker, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		clock:    clk,
		ttl:      ttl,
	}
}

// Create stores a new session under the token.
func (s *MemoryStore) Create(_ context.Context, token string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = sess

	return nil
}

// Get returns the session for the token, or ErrNotFound. Expired sessions
// are removed lazily.
func (s *MemoryStore) Get(_ context.Context, token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}

	if !sess.ExpiresAt.IsZero() && s.clock.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, ErrNotFound
	}

	return sess, nil
}

// Update replaces the session for the token.
func (s *MemoryStore) Update(_ context.Context, token string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrNotFound
	}

	s.sessions[token] = sess

	return nil
}

// Delete removes the session.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)

	return nil
}
