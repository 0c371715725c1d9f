package call

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type fakeTokenSource struct {
	token string
	err   error
	rooms []string
}

func (f *fakeTokenSource) Token(_ context.Context, room string) (string, error) {
	f.rooms = append(f.rooms, room)
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeSession struct {
	mu         sync.Mutex
	micEnables int
	micStates  []bool
	micErr     error
	closes     int
}

func (f *fakeSession) EnableMicrophone() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.micEnables++
	return f.micErr
}

func (f *fakeSession) SetMicEnabled(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.micErr != nil {
		return f.micErr
	}
	f.micStates = append(f.micStates, enabled)
	return nil
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
}

func (f *fakeSession) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

type fakeDialer struct {
	sess    *fakeSession
	err     error
	handler func(Event)
	dials   int
}

func (f *fakeDialer) Dial(_ context.Context, _, _ string, h func(Event)) (Session, error) {
	f.dials++
	f.handler = h
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

func newTestController(tokens TokenSource, dialer Dialer, callbacks Callbacks) *Controller {
	return NewController(tokens, dialer, callbacks, Options{RoomPrefix: "salon-call"}, zerolog.Nop())
}

func connectAndJoin(t *testing.T, c *Controller, d *fakeDialer) {
	t.Helper()
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	d.handler(ConnectedEvent{})
	if got := c.State(); got != StateConnected {
		t.Fatalf("expected Connected after join, got %s", got)
	}
}

func transcriptText(c *Controller) string {
	var b strings.Builder
	for _, e := range c.Transcript() {
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestConnectLifecycle(t *testing.T) {
	tokens := &fakeTokenSource{token: "jwt"}
	dialer := &fakeDialer{sess: &fakeSession{}}

	var connections []bool
	c := newTestController(tokens, dialer, Callbacks{
		OnConnectionChange: func(up bool) { connections = append(connections, up) },
	})

	if got := c.State(); got != StateIdle {
		t.Fatalf("expected Idle initially, got %s", got)
	}

	connectAndJoin(t, c, dialer)

	if len(tokens.rooms) != 1 || !strings.HasPrefix(tokens.rooms[0], "salon-call-") {
		t.Errorf("unexpected room name request: %v", tokens.rooms)
	}
	if dialer.sess.micEnables != 1 {
		t.Errorf("expected microphone enabled once, got %d", dialer.sess.micEnables)
	}
	if len(connections) != 1 || !connections[0] {
		t.Errorf("expected one OnConnectionChange(true), got %v", connections)
	}
	if !strings.Contains(transcriptText(c), "System: Connected to AI receptionist") {
		t.Errorf("transcript missing connect entry: %q", transcriptText(c))
	}

	c.Disconnect()

	if got := c.State(); got != StateIdle {
		t.Errorf("expected Idle after disconnect, got %s", got)
	}
	if dialer.sess.closeCount() != 1 {
		t.Errorf("expected session closed once, got %d", dialer.sess.closeCount())
	}
	if len(connections) != 2 || connections[1] {
		t.Errorf("expected OnConnectionChange(false) after disconnect, got %v", connections)
	}
	if !strings.Contains(transcriptText(c), "System: Disconnected") {
		t.Errorf("transcript missing disconnect entry: %q", transcriptText(c))
	}
}

func TestConnectRejectsWhileActive(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	connectAndJoin(t, c, dialer)

	if err := c.Connect(context.Background()); !errors.Is(err, ErrCallActive) {
		t.Fatalf("expected ErrCallActive, got %v", err)
	}
	if dialer.dials != 1 {
		t.Errorf("second connect must not dial, got %d dials", dialer.dials)
	}
}

func TestConnectTokenFailure(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(&fakeTokenSource{err: errors.New("connection refused")}, dialer, Callbacks{})

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("token failure must be absorbed, got %v", err)
	}
	if got := c.State(); got != StateError {
		t.Errorf("expected Error state, got %s", got)
	}
	if dialer.dials != 0 {
		t.Errorf("dialer must not be reached after token failure, got %d dials", dialer.dials)
	}
	if !strings.Contains(transcriptText(c), "Error:") {
		t.Errorf("transcript missing error entry: %q", transcriptText(c))
	}
}

func TestConnectDialFailure(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("ws handshake failed")}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("dial failure must be absorbed, got %v", err)
	}
	if got := c.State(); got != StateError {
		t.Errorf("expected Error state, got %s", got)
	}
}

func TestErrorStateSurvivesLateDialEvents(t *testing.T) {
	// A dial that times out can still land later; the SDK then disconnects
	// the late room, firing events through the failed attempt's handler.
	dialer := &fakeDialer{err: errors.New("join room: context deadline exceeded")}
	var connections []bool
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{
		OnConnectionChange: func(up bool) { connections = append(connections, up) },
	})

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("dial failure must be absorbed, got %v", err)
	}
	if got := c.State(); got != StateError {
		t.Fatalf("expected Error state, got %s", got)
	}

	dialer.handler(DisconnectedEvent{})
	dialer.handler(ConnectedEvent{})

	if got := c.State(); got != StateError {
		t.Errorf("late dial event moved Error to %s", got)
	}
	if strings.Contains(transcriptText(c), "System: Disconnected") {
		t.Errorf("late disconnect reached transcript: %q", transcriptText(c))
	}
	if len(connections) != 0 {
		t.Errorf("late dial events fired connection callbacks: %v", connections)
	}
}

func TestConnectAllowedAfterError(t *testing.T) {
	tokens := &fakeTokenSource{err: errors.New("boom")}
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(tokens, dialer, Callbacks{})

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if got := c.State(); got != StateError {
		t.Fatalf("expected Error state, got %s", got)
	}

	tokens.err = nil
	tokens.token = "jwt"
	connectAndJoin(t, c, dialer)
}

func TestDisconnectIdempotent(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	var connections []bool
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{
		OnConnectionChange: func(up bool) { connections = append(connections, up) },
	})

	connectAndJoin(t, c, dialer)

	c.Disconnect()
	c.Disconnect()
	c.Disconnect()

	if dialer.sess.closeCount() != 1 {
		t.Errorf("expected session closed once, got %d", dialer.sess.closeCount())
	}
	if len(connections) != 2 {
		t.Errorf("expected exactly two connection callbacks, got %v", connections)
	}
}

func TestDisconnectOnIdleIsNoop(t *testing.T) {
	c := newTestController(&fakeTokenSource{token: "jwt"}, &fakeDialer{}, Callbacks{})
	c.Disconnect()
	if got := c.State(); got != StateIdle {
		t.Errorf("expected Idle, got %s", got)
	}
	if got := len(c.Transcript()); got != 0 {
		t.Errorf("idle disconnect must not touch transcript, got %d entries", got)
	}
}

func TestDisconnectWinsOverInFlightDial(t *testing.T) {
	sess := &fakeSession{}
	dialed := make(chan struct{})
	release := make(chan struct{})
	dialer := &blockingDialer{sess: sess, dialed: dialed, release: release}

	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	done := make(chan error, 1)
	go func() { done <- c.Connect(context.Background()) }()

	<-dialed
	c.Disconnect()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if got := c.State(); got != StateIdle {
		t.Errorf("expected Idle after superseded dial, got %s", got)
	}
	if sess.closeCount() != 1 {
		t.Errorf("superseded session must be closed, got %d closes", sess.closeCount())
	}
	if sess.micEnables != 0 {
		t.Errorf("superseded session must not publish microphone, got %d", sess.micEnables)
	}
}

type blockingDialer struct {
	sess    *fakeSession
	dialed  chan struct{}
	release chan struct{}
}

func (b *blockingDialer) Dial(_ context.Context, _, _ string, _ func(Event)) (Session, error) {
	close(b.dialed)
	<-b.release
	return b.sess, nil
}

func TestStaleEventsIgnored(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	connectAndJoin(t, c, dialer)
	stale := dialer.handler
	c.Disconnect()

	stale(DataEvent{Text: "late message"})
	stale(ConnectedEvent{})

	if got := c.State(); got != StateIdle {
		t.Errorf("stale event changed state to %s", got)
	}
	if strings.Contains(transcriptText(c), "late message") {
		t.Errorf("stale data event reached transcript: %q", transcriptText(c))
	}
}

func TestRemoteDisconnectEvent(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	var connections []bool
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{
		OnConnectionChange: func(up bool) { connections = append(connections, up) },
	})

	connectAndJoin(t, c, dialer)
	dialer.handler(DisconnectedEvent{})

	if got := c.State(); got != StateIdle {
		t.Errorf("expected Idle after remote disconnect, got %s", got)
	}
	if dialer.sess.closeCount() != 1 {
		t.Errorf("expected session closed once, got %d", dialer.sess.closeCount())
	}
	if len(connections) != 2 || connections[1] {
		t.Errorf("expected OnConnectionChange(false), got %v", connections)
	}
}

func TestToggleMuteRequiresConnection(t *testing.T) {
	c := newTestController(&fakeTokenSource{token: "jwt"}, &fakeDialer{}, Callbacks{})

	if err := c.ToggleMute(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if c.Muted() {
		t.Error("mute flag must stay false on rejected toggle")
	}
}

func TestToggleMute(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	connectAndJoin(t, c, dialer)

	if err := c.ToggleMute(); err != nil {
		t.Fatalf("ToggleMute failed: %v", err)
	}
	if !c.Muted() {
		t.Error("expected muted after first toggle")
	}
	if !strings.Contains(transcriptText(c), "System: Microphone muted") {
		t.Errorf("transcript missing mute entry: %q", transcriptText(c))
	}

	if err := c.ToggleMute(); err != nil {
		t.Fatalf("ToggleMute failed: %v", err)
	}
	if c.Muted() {
		t.Error("expected unmuted after second toggle")
	}
	if !strings.Contains(transcriptText(c), "System: Microphone unmuted") {
		t.Errorf("transcript missing unmute entry: %q", transcriptText(c))
	}

	// SetMicEnabled takes the desired enabled state, the inverse of muted.
	want := []bool{false, true}
	if len(dialer.sess.micStates) != len(want) {
		t.Fatalf("expected %d mic updates, got %v", len(want), dialer.sess.micStates)
	}
	for i, w := range want {
		if dialer.sess.micStates[i] != w {
			t.Errorf("mic update %d: expected %v, got %v", i, w, dialer.sess.micStates[i])
		}
	}
}

func TestToggleMuteFailureKeepsFlag(t *testing.T) {
	sess := &fakeSession{}
	dialer := &fakeDialer{sess: sess}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	connectAndJoin(t, c, dialer)
	sess.micErr = errors.New("publication gone")

	if err := c.ToggleMute(); err != nil {
		t.Fatalf("mute failure must be absorbed, got %v", err)
	}
	if c.Muted() {
		t.Error("mute flag must be unchanged when the media update fails")
	}
	if got := c.State(); got != StateConnected {
		t.Errorf("expected Connected, got %s", got)
	}
}

func TestDataEventAppendsAgentLine(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	connectAndJoin(t, c, dialer)
	dialer.handler(DataEvent{Text: "How can I help you today?"})

	if !strings.Contains(transcriptText(c), "AI: How can I help you today?") {
		t.Errorf("transcript missing agent line: %q", transcriptText(c))
	}
}

func TestVoiceActivityCallback(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	var activity []bool
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{
		OnVoiceDetected: func(active bool) { activity = append(activity, active) },
	})

	connectAndJoin(t, c, dialer)
	dialer.handler(VoiceActivityEvent{Active: true})
	dialer.handler(VoiceActivityEvent{Active: false})

	want := []bool{true, false}
	if len(activity) != len(want) {
		t.Fatalf("expected %d activity callbacks, got %v", len(want), activity)
	}
	for i, w := range want {
		if activity[i] != w {
			t.Errorf("activity %d: expected %v, got %v", i, w, activity[i])
		}
	}
}

func TestSessionErrorEventDoesNotChangeState(t *testing.T) {
	dialer := &fakeDialer{sess: &fakeSession{}}
	c := newTestController(&fakeTokenSource{token: "jwt"}, dialer, Callbacks{})

	connectAndJoin(t, c, dialer)
	dialer.handler(SessionErrorEvent{Op: "read audio", Err: errors.New("rtp timeout")})

	if got := c.State(); got != StateConnected {
		t.Errorf("session anomaly must not change state, got %s", got)
	}
	if !strings.Contains(transcriptText(c), "Error:") {
		t.Errorf("transcript missing anomaly entry: %q", transcriptText(c))
	}
}
