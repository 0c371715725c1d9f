// Package store provides the in-memory session store and the syncer that
// reconciles it against LiveKit room state.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/infrastructure/metrics"
)

var (
	// ErrSessionNotFound is returned when no session exists for a room.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRoomAlreadyExists is returned when a room already has a session.
	ErrRoomAlreadyExists = errors.New("room already exists")
)

// MemoryStore is a mutex-based in-memory session store. Room names are
// timestamped, so the room is the natural key. Besides the live sessions it
// keeps the lifetime counters the stats endpoint reports.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	issued   int
	resolved int
	log      zerolog.Logger
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*session.Session),
		log:      log.With().Str("component", "session-store").Logger(),
	}
}

// Create stores a new session and counts it as issued.
func (s *MemoryStore) Create(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.Room]; exists {
		return ErrRoomAlreadyExists
	}

	cp := *sess
	s.sessions[sess.Room] = &cp
	s.issued++
	metrics.RecordTokenIssued()
	return nil
}

// GetByRoom retrieves a session by room name.
func (s *MemoryStore) GetByRoom(ctx context.Context, room string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[room]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

// List returns all live sessions.
func (s *MemoryStore) List(ctx context.Context) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		cp := *sess
		result = append(result, &cp)
	}
	return result, nil
}

// UpdateState updates the lifecycle state of a session.
func (s *MemoryStore) UpdateState(ctx context.Context, room string, state session.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[room]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.State != state {
		metrics.RecordStateTransition(string(sess.State), string(state))
	}
	sess.State = state
	return nil
}

// Resolve removes a completed call and counts it as resolved.
func (s *MemoryStore) Resolve(ctx context.Context, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[room]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, room)
	s.resolved++
	metrics.RecordSessionResolved()
	return nil
}

// Remove discards a session that never connected.
func (s *MemoryStore) Remove(ctx context.Context, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[room]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, room)
	metrics.RecordSessionExpired()
	return nil
}

// Counts returns the aggregate counters.
func (s *MemoryStore) Counts(ctx context.Context) (session.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return session.Counts{
		Pending:  len(s.sessions),
		Total:    s.issued,
		Resolved: s.resolved,
	}, nil
}
