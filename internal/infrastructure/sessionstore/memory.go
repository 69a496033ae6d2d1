package sessionstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/domain/onboarding"
	"github.com/verdantmarket/backend/internal/domain/shared"
)

type storedSession struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore implements onboarding.SessionRepository in process
// memory. Sessions are serialized the same way as in Redis so the two stores
// are interchangeable, and expired entries are dropped lazily on access.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]storedSession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = onboarding.SessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]storedSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// FindByID loads a session, returning shared.ErrNotFound for missing or
// expired sessions
func (s *MemorySessionStore) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.Session, error) {
	s.mu.RLock()
	stored, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrNotFound
	}
	if s.now().After(stored.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, shared.ErrNotFound
	}

	var session onboarding.Session
	if err := json.Unmarshal(stored.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save writes the session and refreshes its TTL
func (s *MemorySessionStore) Save(ctx context.Context, session *onboarding.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = storedSession{
		data:      data,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *MemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Ensure MemorySessionStore implements SessionRepository
var _ onboarding.SessionRepository = (*MemorySessionStore)(nil)
