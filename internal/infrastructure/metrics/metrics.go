// Package metrics provides Prometheus metrics for the voice-console backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PendingSessions tracks sessions with an issued token that have not
	// resolved yet.
	PendingSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voice_pending_sessions",
			Help: "Number of voice sessions awaiting resolution",
		},
	)

	// TokensIssued tracks the total number of join tokens issued.
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_tokens_issued_total",
			Help: "Total number of join tokens issued",
		},
	)

	// SessionsResolved tracks calls that connected and then ended.
	SessionsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_sessions_resolved_total",
			Help: "Total number of voice sessions resolved",
		},
	)

	// SessionsExpired tracks issued tokens that were never used.
	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_sessions_expired_total",
			Help: "Total number of voice sessions discarded unused",
		},
	)

	// SessionStateTransitions tracks session state changes.
	SessionStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_session_state_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"from_state", "to_state"},
	)

	// LiveKitSyncDuration tracks the duration of LiveKit room sync cycles.
	LiveKitSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voice_livekit_sync_duration_seconds",
			Help:    "Duration of LiveKit room sync cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	// LiveKitSyncErrors tracks errors during LiveKit sync.
	LiveKitSyncErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_livekit_sync_errors_total",
			Help: "Total number of errors during LiveKit room sync",
		},
	)

	// TokenGenerationDuration tracks token signing time.
	TokenGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voice_token_generation_duration_seconds",
			Help:    "Duration of LiveKit token generation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	// HTTPRequestDuration tracks request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voice_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordTokenIssued increments the issuance metrics.
func RecordTokenIssued() {
	TokensIssued.Inc()
	PendingSessions.Inc()
}

// RecordSessionResolved counts a session closing after a completed call.
func RecordSessionResolved() {
	SessionsResolved.Inc()
	PendingSessions.Dec()
}

// RecordSessionExpired counts a session discarded before anyone joined.
func RecordSessionExpired() {
	SessionsExpired.Inc()
	PendingSessions.Dec()
}

// RecordStateTransition records a session state change.
func RecordStateTransition(fromState, toState string) {
	SessionStateTransitions.WithLabelValues(fromState, toState).Inc()
}
