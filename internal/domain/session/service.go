package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TokenGenerator mints LiveKit access tokens.
type TokenGenerator interface {
	Generate(room, identity, name string, ttl time.Duration) (token string, err error)
}

// Service defines the business operations around issued tokens.
type Service interface {
	// IssueToken mints a join credential for the named room and records
	// the session as pending.
	IssueToken(ctx context.Context, room string) (*Credential, error)

	// Counts returns the aggregate session counters.
	Counts(ctx context.Context) (Counts, error)
}

type service struct {
	store    Store
	tokenGen TokenGenerator
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewService creates a new session service.
func NewService(store Store, tokenGen TokenGenerator, tokenTTL time.Duration, log zerolog.Logger) Service {
	return &service{
		store:    store,
		tokenGen: tokenGen,
		tokenTTL: tokenTTL,
		log:      log.With().Str("component", "session-service").Logger(),
	}
}

func (s *service) IssueToken(ctx context.Context, room string) (*Credential, error) {
	// The console is the only publisher per room, so the identity is
	// derived from the room name rather than from an account.
	identity := "user-" + room
	const name = "Customer"

	token, err := s.tokenGen.Generate(room, identity, name, s.tokenTTL)
	if err != nil {
		s.log.Error().Err(err).Str("room", room).Msg("failed to generate token")
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		Room:      room,
		Identity:  identity,
		Name:      name,
		State:     StateCreated,
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		s.log.Error().Err(err).Str("room", room).Msg("failed to store session")
		return nil, err
	}

	s.log.Info().
		Str("room", room).
		Str("identity", identity).
		Msg("token issued")

	return &Credential{
		Room:      room,
		Identity:  identity,
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
	}, nil
}

func (s *service) Counts(ctx context.Context) (Counts, error) {
	return s.store.Counts(ctx)
}
