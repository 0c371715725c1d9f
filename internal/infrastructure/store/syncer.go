package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/infrastructure/livekit"
	"github.com/glowdesk/voice-console/internal/infrastructure/metrics"
)

// RoomLister reports the occupied LiveKit rooms. Satisfied by
// livekit.RoomClient.
type RoomLister interface {
	ListActiveRooms(ctx context.Context) (map[string]livekit.RoomInfo, error)
}

// Syncer reconciles the session store against LiveKit room state:
//   - created sessions become connected once the room has participants
//   - connected sessions whose room is gone or empty are resolved
//   - created sessions that never connected are removed after staleTTL
type Syncer struct {
	store     session.Store
	rooms     RoomLister
	staleTTL  time.Duration
	interval  time.Duration
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewSyncer creates a new session syncer.
func NewSyncer(
	store session.Store,
	rooms RoomLister,
	staleTTL time.Duration,
	interval time.Duration,
	log zerolog.Logger,
) *Syncer {
	return &Syncer{
		store:    store,
		rooms:    rooms,
		staleTTL: staleTTL,
		interval: interval,
		log:      log.With().Str("component", "session-syncer").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins the sync loop in background.
// Safe to call multiple times, only the first call starts the syncer.
func (s *Syncer) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run(ctx)
		s.log.Info().Msg("session syncer started")
	})
}

// Stop gracefully shuts down the syncer.
// Safe to call multiple times, only the first call stops the syncer.
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.log.Info().Msg("session syncer stopped")
	})
}

func (s *Syncer) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("context cancelled, shutting down syncer")
			return
		case <-s.done:
			s.log.Debug().Msg("done signal received, shutting down syncer")
			return
		case <-ticker.C:
			s.sync(ctx)
		}
	}
}

// sync runs one reconciliation cycle.
func (s *Syncer) sync(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.LiveKitSyncDuration.Observe(time.Since(start).Seconds())
	}()

	activeRooms, err := s.rooms.ListActiveRooms(ctx)
	if err != nil {
		metrics.LiveKitSyncErrors.Inc()
		s.log.Warn().Err(err).Msg("failed to list rooms from LiveKit, falling back to TTL cleanup")
		s.cleanupByTTL(ctx)
		return
	}

	sessions, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list sessions from store")
		return
	}

	livekitRooms := make([]string, 0, len(activeRooms))
	for name, info := range activeRooms {
		livekitRooms = append(livekitRooms, fmt.Sprintf("%s(%d)", name, info.NumParticipants))
	}
	ourRooms := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ourRooms = append(ourRooms, fmt.Sprintf("%s(%s)", sess.Room, sess.State))
	}

	s.log.Debug().
		Strs("livekit_rooms", livekitRooms).
		Strs("our_sessions", ourRooms).
		Msg("sync cycle")

	now := time.Now()

	for _, sess := range sessions {
		roomInfo, roomExists := activeRooms[sess.Room]

		switch {
		case !roomExists || roomInfo.NumParticipants == 0:
			if sess.State == session.StateConnected {
				// Call ended, room is gone.
				if err := s.store.Resolve(ctx, sess.Room); err == nil {
					s.log.Info().
						Str("action", "resolved").
						Str("room", sess.Room).
						Str("reason", "room_empty").
						Msg("session cleanup")
				}
			} else if sess.State == session.StateCreated && now.Sub(sess.CreatedAt) > s.staleTTL {
				// Token issued but nobody ever joined.
				if err := s.store.Remove(ctx, sess.Room); err == nil {
					s.log.Info().
						Str("action", "removed").
						Str("room", sess.Room).
						Str("reason", "stale").
						Dur("age", now.Sub(sess.CreatedAt)).
						Msg("session cleanup")
				}
			}

		case roomInfo.NumParticipants > 0 && sess.State == session.StateCreated:
			if err := s.store.UpdateState(ctx, sess.Room, session.StateConnected); err == nil {
				s.log.Info().
					Str("action", "connected").
					Str("room", sess.Room).
					Int("participants", roomInfo.NumParticipants).
					Msg("session updated")
			}
		}
	}
}

// cleanupByTTL is the fallback when LiveKit is unreachable. Only discards
// stale sessions that never connected.
func (s *Syncer) cleanupByTTL(ctx context.Context) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list sessions for TTL cleanup")
		return
	}

	now := time.Now()
	stale := 0

	for _, sess := range sessions {
		if sess.State == session.StateCreated && now.Sub(sess.CreatedAt) > s.staleTTL {
			if err := s.store.Remove(ctx, sess.Room); err == nil {
				stale++
			}
		}
	}

	if stale > 0 {
		s.log.Info().
			Int("stale_removed", stale).
			Msg("TTL fallback cleanup completed")
	}
}
