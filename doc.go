// Package voiceconsole is the root of the Glow Beauty Salon voice console,
// an operator-facing client for the salon's AI receptionist.
//
// The repository ships two binaries:
//   - cmd/console: the operator console. It drives a single live audio
//     session against the salon's LiveKit deployment: fetches a join token
//     from the backend, connects, publishes the local microphone, plays the
//     agent's audio, and keeps a short transcript of session events.
//   - cmd/server: the supporting backend. It issues LiveKit join tokens
//     (GET /api/token) and serves the supervisor dashboard counters
//     (GET /api/supervisor-stats), tracking issued sessions by polling
//     LiveKit room state.
package voiceconsole
