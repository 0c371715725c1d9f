package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the voice-console binaries.
// Both the operator console and the backend server read the same struct;
// each binary validates only the fields it needs.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"voice-console"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"BACKEND_PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Optional JWT auth in front of the backend API
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"ISSUER"`
	AuthAudience string `env:"AUDIENCE"`
	AuthJWKSURL  string `env:"JWKS_URL"`

	// LiveKit
	LiveKitWsURL     string        `env:"LIVEKIT_WS_URL" envDefault:"ws://localhost:7880"`
	LiveKitAPIKey    string        `env:"LIVEKIT_API_KEY"`
	LiveKitAPISecret string        `env:"LIVEKIT_API_SECRET"`
	LiveKitTokenTTL  time.Duration `env:"LIVEKIT_TOKEN_TTL" envDefault:"6h"`

	// Issued-session tracking (backend)
	SessionSyncInterval time.Duration `env:"SESSION_SYNC_INTERVAL" envDefault:"15s"`
	SessionStaleTTL     time.Duration `env:"SESSION_STALE_TTL" envDefault:"10m"` // how long a never-joined token lingers

	// Console
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8000"`
	RoomPrefix     string        `env:"ROOM_PREFIX" envDefault:"salon-call"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"15s"`
	MicSource      string        `env:"MIC_SOURCE" envDefault:""` // OGG/Opus source published as the microphone; silent track when empty
	AudioOutDir    string        `env:"AUDIO_OUT_DIR" envDefault:"calls"`
}

// Load parses environment variables and validates the backend server fields.
func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.LiveKitAPIKey) == "" {
		return nil, fmt.Errorf("LIVEKIT_API_KEY is required")
	}
	if strings.TrimSpace(cfg.LiveKitAPISecret) == "" {
		return nil, fmt.Errorf("LIVEKIT_API_SECRET is required")
	}

	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthAudience) == "" {
			return nil, fmt.Errorf("AUDIENCE is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("JWKS_URL is required when AUTH_ENABLED is true")
		}
	}

	return cfg, nil
}

// LoadConsole parses environment variables and validates the console fields.
// The console never sees LiveKit API credentials; it joins rooms with tokens
// issued by the backend.
func LoadConsole() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.BackendURL) == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}
	if strings.TrimSpace(cfg.LiveKitWsURL) == "" {
		return nil, fmt.Errorf("LIVEKIT_WS_URL is required")
	}
	if strings.TrimSpace(cfg.RoomPrefix) == "" {
		return nil, fmt.Errorf("ROOM_PREFIX must not be empty")
	}

	return cfg, nil
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Addr returns the backend HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
