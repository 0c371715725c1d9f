package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/infrastructure/livekit"
)

type fakeRoomLister struct {
	rooms map[string]livekit.RoomInfo
	err   error
}

func (f *fakeRoomLister) ListActiveRooms(context.Context) (map[string]livekit.RoomInfo, error) {
	return f.rooms, f.err
}

func TestSyncerPromotesOccupiedRooms(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())
	if err := s.Create(ctx, newSession("salon-call-1", session.StateCreated)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	lister := &fakeRoomLister{rooms: map[string]livekit.RoomInfo{
		"salon-call-1": {NumParticipants: 2},
	}}
	syncer := NewSyncer(s, lister, time.Minute, time.Minute, zerolog.Nop())
	syncer.sync(ctx)

	got, err := s.GetByRoom(ctx, "salon-call-1")
	if err != nil {
		t.Fatalf("GetByRoom failed: %v", err)
	}
	if got.State != session.StateConnected {
		t.Errorf("expected connected, got %s", got.State)
	}
}

func TestSyncerResolvesEndedCalls(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())
	if err := s.Create(ctx, newSession("salon-call-1", session.StateConnected)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	syncer := NewSyncer(s, &fakeRoomLister{rooms: map[string]livekit.RoomInfo{}}, time.Minute, time.Minute, zerolog.Nop())
	syncer.sync(ctx)

	counts, _ := s.Counts(ctx)
	if counts.Resolved != 1 || counts.Pending != 0 {
		t.Errorf("expected one resolved session, got %+v", counts)
	}
}

func TestSyncerRemovesStaleSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	stale := newSession("salon-call-1", session.StateCreated)
	stale.CreatedAt = time.Now().Add(-time.Hour)
	if err := s.Create(ctx, stale); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, newSession("salon-call-2", session.StateCreated)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	syncer := NewSyncer(s, &fakeRoomLister{rooms: map[string]livekit.RoomInfo{}}, 30*time.Minute, time.Minute, zerolog.Nop())
	syncer.sync(ctx)

	counts, _ := s.Counts(ctx)
	// The stale session is removed without counting as resolved; the
	// fresh one stays pending.
	if counts.Pending != 1 || counts.Resolved != 0 {
		t.Errorf("unexpected counts after cleanup: %+v", counts)
	}
	if _, err := s.GetByRoom(ctx, "salon-call-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session must be gone, got %v", err)
	}
}

func TestSyncerFallsBackWhenLiveKitUnreachable(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	stale := newSession("salon-call-1", session.StateCreated)
	stale.CreatedAt = time.Now().Add(-time.Hour)
	if err := s.Create(ctx, stale); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, newSession("salon-call-2", session.StateConnected)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	syncer := NewSyncer(s, &fakeRoomLister{err: errors.New("dial tcp: refused")}, 30*time.Minute, time.Minute, zerolog.Nop())
	syncer.sync(ctx)

	// Only the stale created session is cleaned; connected sessions are
	// left alone until LiveKit is reachable again.
	if _, err := s.GetByRoom(ctx, "salon-call-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session must be gone, got %v", err)
	}
	if _, err := s.GetByRoom(ctx, "salon-call-2"); err != nil {
		t.Errorf("connected session must survive fallback cleanup: %v", err)
	}
}

func TestSyncerStartStopIdempotent(t *testing.T) {
	s := NewMemoryStore(zerolog.Nop())
	syncer := NewSyncer(s, &fakeRoomLister{}, time.Minute, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncer.Start(ctx)
	syncer.Start(ctx)
	syncer.Stop()
	syncer.Stop()
}
