package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/session"
)

func newSession(room string, state session.State) *session.Session {
	return &session.Session{
		Room:      room,
		Identity:  "user-" + room,
		Name:      "Customer",
		State:     state,
		CreatedAt: time.Now(),
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	if err := s.Create(ctx, newSession("salon-call-1", session.StateCreated)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, newSession("salon-call-1", session.StateCreated)); !errors.Is(err, ErrRoomAlreadyExists) {
		t.Fatalf("expected ErrRoomAlreadyExists, got %v", err)
	}

	got, err := s.GetByRoom(ctx, "salon-call-1")
	if err != nil {
		t.Fatalf("GetByRoom failed: %v", err)
	}
	if got.Identity != "user-salon-call-1" {
		t.Errorf("unexpected identity %q", got.Identity)
	}

	if err := s.UpdateState(ctx, "salon-call-1", session.StateConnected); err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	got, _ = s.GetByRoom(ctx, "salon-call-1")
	if got.State != session.StateConnected {
		t.Errorf("expected connected, got %s", got.State)
	}

	if err := s.Resolve(ctx, "salon-call-1"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := s.GetByRoom(ctx, "salon-call-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after resolve, got %v", err)
	}
}

func TestMemoryStoreCounts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	for _, room := range []string{"salon-call-1", "salon-call-2", "salon-call-3"} {
		if err := s.Create(ctx, newSession(room, session.StateCreated)); err != nil {
			t.Fatalf("Create %s failed: %v", room, err)
		}
	}

	if err := s.Resolve(ctx, "salon-call-1"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if err := s.Remove(ctx, "salon-call-2"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	want := session.Counts{Pending: 1, Total: 3, Resolved: 1}
	if counts != want {
		t.Errorf("expected %+v, got %+v", want, counts)
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	if err := s.Create(ctx, newSession("salon-call-1", session.StateCreated)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, _ := s.GetByRoom(ctx, "salon-call-1")
	got.State = session.StateConnected

	again, _ := s.GetByRoom(ctx, "salon-call-1")
	if again.State != session.StateCreated {
		t.Error("store must not observe mutations of returned sessions")
	}
}

func TestMemoryStoreMissingRoom(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	if err := s.UpdateState(ctx, "nope", session.StateConnected); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("UpdateState: expected ErrSessionNotFound, got %v", err)
	}
	if err := s.Resolve(ctx, "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Resolve: expected ErrSessionNotFound, got %v", err)
	}
	if err := s.Remove(ctx, "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Remove: expected ErrSessionNotFound, got %v", err)
	}
}
