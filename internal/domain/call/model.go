// Package call implements the operator-side voice session: the connection
// state machine, the bounded transcript, and the contracts toward the token
// backend and the media transport.
package call

// State is the connection state of the operator's call.
// The Controller owns the single State value; it is never mutated elsewhere.
type State string

const (
	// StateIdle means no call is in progress.
	StateIdle State = "idle"
	// StateConnecting means a connect attempt is in flight.
	StateConnecting State = "connecting"
	// StateConnected means the room is joined and media is live.
	StateConnected State = "connected"
	// StateError means the last connect attempt failed; the operator must
	// retry explicitly.
	StateError State = "error"
)

// Active reports whether a call is in progress or being established.
func (s State) Active() bool {
	return s == StateConnecting || s == StateConnected
}

// Callbacks notify the hosting UI of observable session changes. They fire
// synchronously with the corresponding state transition; nil fields are
// skipped. Failures never surface here; the UI observes them through
// StateError and the transcript.
type Callbacks struct {
	OnConnectionChange func(connected bool)
	OnVoiceDetected    func(active bool)
}
