// Package livekit wraps the LiveKit SDK surfaces the service uses: token
// minting and room inspection on the backend side, and the room dialer plus
// media session on the console side.
package livekit

import (
	"time"

	"github.com/livekit/protocol/auth"

	"github.com/glowdesk/voice-console/internal/config"
	"github.com/glowdesk/voice-console/internal/infrastructure/metrics"
)

// TokenGenerator mints LiveKit access tokens.
type TokenGenerator struct {
	apiKey    string
	apiSecret string
}

// NewTokenGenerator creates a new token generator.
func NewTokenGenerator(cfg *config.Config) *TokenGenerator {
	return &TokenGenerator{
		apiKey:    cfg.LiveKitAPIKey,
		apiSecret: cfg.LiveKitAPISecret,
	}
}

// Generate creates an access token joining the given room under the given
// identity and display name. The grant allows audio publish, subscribe, and
// data messages, everything a console call needs.
func (g *TokenGenerator) Generate(room, identity, name string, ttl time.Duration) (string, error) {
	start := time.Now()
	defer func() {
		metrics.TokenGenerationDuration.Observe(time.Since(start).Seconds())
	}()

	at := auth.NewAccessToken(g.apiKey, g.apiSecret)

	canPublish := true
	canSubscribe := true
	canPublishData := true

	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           room,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(name).
		SetValidFor(ttl)

	return at.ToJWT()
}
