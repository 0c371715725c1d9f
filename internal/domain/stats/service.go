package stats

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/session"
)

// Service aggregates session counters into dashboard stats.
type Service interface {
	Snapshot(ctx context.Context) (Stats, error)
}

type service struct {
	sessions session.Service
	log      zerolog.Logger
}

// NewService creates a stats service over the session domain.
func NewService(sessions session.Service, log zerolog.Logger) Service {
	return &service{
		sessions: sessions,
		log:      log.With().Str("component", "stats-service").Logger(),
	}
}

func (s *service) Snapshot(ctx context.Context) (Stats, error) {
	counts, err := s.sessions.Counts(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read session counts")
		return Stats{}, err
	}
	return Stats{
		Pending:  counts.Pending,
		Total:    counts.Total,
		Resolved: counts.Resolved,
		// The knowledge base is not wired up yet; the dashboard still
		// expects the field.
		LearnedAnswers: 0,
	}, nil
}
