package call

// Event is a session event delivered by the media layer. The set is closed:
// the Controller's dispatch switch handles every kind, which keeps the state
// transitions auditable in one place and testable without a transport.
type Event interface {
	isEvent()
}

// ConnectedEvent fires once the room is joined.
type ConnectedEvent struct{}

// DisconnectedEvent fires when the remote side ends the session.
type DisconnectedEvent struct{}

// TrackSubscribedEvent fires after a remote audio track has been attached
// to an output sink.
type TrackSubscribedEvent struct {
	TrackID string
}

// TrackUnsubscribedEvent fires after a remote audio track's attachment has
// been detached.
type TrackUnsubscribedEvent struct {
	TrackID string
}

// DataEvent carries a UTF-8 text message from the agent's data channel.
type DataEvent struct {
	Text string
}

// VoiceActivityEvent reports whether anyone in the room is speaking.
type VoiceActivityEvent struct {
	Active bool
}

// SessionErrorEvent reports an in-session anomaly that does not end the
// call.
type SessionErrorEvent struct {
	Op  string
	Err error
}

func (ConnectedEvent) isEvent()         {}
func (DisconnectedEvent) isEvent()      {}
func (TrackSubscribedEvent) isEvent()   {}
func (TrackUnsubscribedEvent) isEvent() {}
func (DataEvent) isEvent()              {}
func (VoiceActivityEvent) isEvent()     {}
func (SessionErrorEvent) isEvent()      {}
