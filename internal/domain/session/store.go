package session

import "context"

// Store defines session storage. It is storage-only; reconciliation against
// LiveKit room state lives in the Syncer component.
type Store interface {
	// Create stores a new session record.
	Create(ctx context.Context, sess *Session) error

	// GetByRoom retrieves a session by room name.
	GetByRoom(ctx context.Context, room string) (*Session, error)

	// List returns all live sessions, for sync iteration.
	List(ctx context.Context) ([]*Session, error)

	// UpdateState updates the lifecycle state of a session.
	UpdateState(ctx context.Context, room string, state State) error

	// Resolve removes a session that completed a call, counting it as
	// resolved.
	Resolve(ctx context.Context, room string) error

	// Remove discards a session that never connected. It does not count
	// toward resolved.
	Remove(ctx context.Context, room string) error

	// Counts returns the aggregate counters for the stats endpoint.
	Counts(ctx context.Context) (Counts, error)
}
