package call

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/utils/idgen"
)

// TokenSource issues a join credential for a named room. The credential is
// opaque to the controller; it is handed to the Dialer untouched.
type TokenSource interface {
	Token(ctx context.Context, room string) (string, error)
}

// Session is one live media attachment. Implementations own the transport
// handle, the local microphone publication, and every remote audio
// attachment; Close releases all of them and is safe to call repeatedly.
type Session interface {
	EnableMicrophone() error
	SetMicEnabled(enabled bool) error
	Close()
}

// Dialer opens a media session for a join credential. Implementations must
// register the event handler before initiating the network connection so
// that no early event is missed, and must emit ConnectedEvent once the room
// is joined.
type Dialer interface {
	Dial(ctx context.Context, room, token string, h func(Event)) (Session, error)
}

// Options tune the controller.
type Options struct {
	// RoomPrefix names the rooms this console creates; the full room name
	// is RoomPrefix plus a millisecond timestamp.
	RoomPrefix string
	// ConnectTimeout bounds the token request plus the room handshake.
	// Zero disables the bound.
	ConnectTimeout time.Duration
}

// Controller drives the operator's voice session: it owns the state
// machine, wires media events into the transcript and the UI callbacks,
// and guarantees that every resource a connect attempt acquires is released
// on every exit path.
//
// All state transitions are serialized under one mutex; media-layer events
// may arrive from transport goroutines at any time.
type Controller struct {
	tokens    TokenSource
	dialer    Dialer
	callbacks Callbacks
	opts      Options
	log       zerolog.Logger

	mu      sync.Mutex
	state   State
	sess    Session
	muted   bool
	attempt uint64

	transcript *Transcript
}

// NewController wires a controller from its collaborators.
func NewController(tokens TokenSource, dialer Dialer, callbacks Callbacks, opts Options, log zerolog.Logger) *Controller {
	if opts.RoomPrefix == "" {
		opts.RoomPrefix = "salon-call"
	}
	return &Controller{
		tokens:     tokens,
		dialer:     dialer,
		callbacks:  callbacks,
		opts:       opts,
		log:        log.With().Str("component", "call-controller").Logger(),
		state:      StateIdle,
		transcript: NewTranscript(),
	}
}

// State returns the current connection state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Muted reports whether the local microphone is muted.
func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Transcript returns a snapshot of the session transcript.
func (c *Controller) Transcript() []Entry {
	return c.transcript.Entries()
}

// Connect starts a call to the AI receptionist. It returns ErrCallActive
// when a call is already connecting or connected; token and connection
// failures are absorbed into StateError and the transcript and return nil.
// A Disconnect issued while the attempt is in flight wins: the session is
// torn down as soon as the attempt settles.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Active() {
		c.mu.Unlock()
		return ErrCallActive
	}
	c.attempt++
	attempt := c.attempt
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	if c.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ConnectTimeout)
		defer cancel()
	}

	room := idgen.TimestampedName(c.opts.RoomPrefix)
	c.log.Info().Str("room", room).Msg("connecting")

	token, err := c.tokens.Token(ctx, room)
	if err != nil {
		c.fail(attempt, &TokenError{Err: err})
		return nil
	}

	sess, err := c.dialer.Dial(ctx, room, token, func(ev Event) {
		c.handleEvent(attempt, ev)
	})
	if err != nil {
		c.fail(attempt, &ConnectionError{Err: err})
		return nil
	}

	c.mu.Lock()
	if c.attempt != attempt {
		// Disconnect was requested while the dial was in flight; the
		// attempt settled successfully but must not stay live.
		c.mu.Unlock()
		sess.Close()
		return nil
	}
	c.sess = sess
	c.muted = false
	c.mu.Unlock()

	if err := sess.EnableMicrophone(); err != nil {
		c.handleEvent(attempt, SessionErrorEvent{Op: "enable microphone", Err: err})
	}
	return nil
}

// Disconnect ends the call and releases every acquired resource. It is
// idempotent and valid in every state; the hosting UI must call it
// unconditionally on teardown.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	wasConnected := c.state == StateConnected
	c.attempt++ // invalidate in-flight attempts and stale media events
	if sess != nil {
		c.transcript.Append("System: Disconnected")
	}
	c.setStateLocked(StateIdle)
	c.mu.Unlock()

	if sess != nil {
		sess.Close()
	}
	if wasConnected {
		c.notifyConnection(false)
	}
}

// ToggleMute flips the local microphone while connected. Returns
// ErrNotConnected otherwise; the mute flag is left untouched on failure.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	if c.state != StateConnected || c.sess == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	sess := c.sess
	muted := !c.muted
	c.mu.Unlock()

	if err := sess.SetMicEnabled(!muted); err != nil {
		c.transcript.Append("Error: " + (&RuntimeSessionError{Op: "toggle mute", Err: err}).Error())
		c.log.Warn().Err(err).Msg("mute toggle failed")
		return nil
	}

	c.mu.Lock()
	c.muted = muted
	if muted {
		c.transcript.Append("System: Microphone muted")
	} else {
		c.transcript.Append("System: Microphone unmuted")
	}
	c.mu.Unlock()
	return nil
}

// handleEvent is the single dispatch point for media-layer events. Events
// from superseded attempts are dropped.
func (c *Controller) handleEvent(attempt uint64, ev Event) {
	c.mu.Lock()
	if c.attempt != attempt {
		c.mu.Unlock()
		return
	}

	switch e := ev.(type) {
	case ConnectedEvent:
		c.setStateLocked(StateConnected)
		c.transcript.Append("System: Connected to AI receptionist")
		c.mu.Unlock()
		c.notifyConnection(true)

	case DisconnectedEvent:
		sess := c.sess
		c.sess = nil
		wasConnected := c.state == StateConnected
		c.attempt++
		c.transcript.Append("System: Disconnected")
		c.setStateLocked(StateIdle)
		c.mu.Unlock()
		if sess != nil {
			sess.Close()
		}
		if wasConnected {
			c.notifyConnection(false)
		}

	case TrackSubscribedEvent:
		c.mu.Unlock()
		c.log.Debug().Str("track", e.TrackID).Msg("agent audio attached")

	case TrackUnsubscribedEvent:
		c.mu.Unlock()
		c.log.Debug().Str("track", e.TrackID).Msg("agent audio detached")

	case DataEvent:
		c.transcript.Append("AI: " + e.Text)
		c.mu.Unlock()

	case VoiceActivityEvent:
		c.mu.Unlock()
		if c.callbacks.OnVoiceDetected != nil {
			c.callbacks.OnVoiceDetected(e.Active)
		}

	case SessionErrorEvent:
		// In-session anomaly: transcript note only, no state change.
		c.transcript.Append("Error: " + (&RuntimeSessionError{Op: e.Op, Err: e.Err}).Error())
		c.mu.Unlock()
		c.log.Warn().Err(e.Err).Str("op", e.Op).Msg("session anomaly")

	default:
		c.mu.Unlock()
	}
}

// fail moves a still-current connect attempt into StateError. The attempt
// counter is bumped so late events from the failed attempt (a room that
// lands after its dial timed out, say) cannot move the controller out of
// the error state.
func (c *Controller) fail(attempt uint64, err error) {
	c.mu.Lock()
	if c.attempt != attempt {
		c.mu.Unlock()
		return
	}
	c.attempt++
	c.sess = nil
	c.transcript.Append("Error: " + err.Error())
	c.setStateLocked(StateError)
	c.mu.Unlock()

	c.log.Error().Err(err).Msg("connect attempt failed")
}

func (c *Controller) setStateLocked(next State) {
	if c.state == next {
		return
	}
	prev := c.state
	c.state = next
	c.log.Info().Str("from", string(prev)).Str("to", string(next)).Msg("state changed")
}

func (c *Controller) notifyConnection(connected bool) {
	if c.callbacks.OnConnectionChange != nil {
		c.callbacks.OnConnectionChange(connected)
	}
}
