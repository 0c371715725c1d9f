package livekit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"
)

// fakeTrack feeds packets until closed, then blocks until a read deadline
// interrupts it, mirroring how a live TrackRemote behaves.
type fakeTrack struct {
	packets  chan *rtp.Packet
	deadline chan struct{}
	once     sync.Once
}

func newFakeTrack() *fakeTrack {
	return &fakeTrack{
		packets:  make(chan *rtp.Packet, 16),
		deadline: make(chan struct{}),
	}
}

func (f *fakeTrack) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	select {
	case pkt := <-f.packets:
		return pkt, nil, nil
	case <-f.deadline:
		return nil, nil, errors.New("read deadline exceeded")
	}
}

func (f *fakeTrack) SetReadDeadline(time.Time) error {
	f.once.Do(func() { close(f.deadline) })
	return nil
}

type recordingSink struct {
	mu      sync.Mutex
	packets []*rtp.Packet
	closes  int
}

func (r *recordingSink) WriteRTP(pkt *rtp.Packet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packets = append(r.packets, pkt)
	return nil
}

func (r *recordingSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	return nil
}

func (r *recordingSink) snapshot() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.packets), r.closes
}

func TestAttachmentPumpsPackets(t *testing.T) {
	track := newFakeTrack()
	sink := &recordingSink{}

	for i := 0; i < 3; i++ {
		track.packets <- &rtp.Packet{Header: rtp.Header{SequenceNumber: uint16(i)}}
	}

	a := newAttachment("TR_test", track, sink, zerolog.Nop())

	deadline := time.After(2 * time.Second)
	for {
		if n, _ := sink.snapshot(); n == 3 {
			break
		}
		select {
		case <-deadline:
			n, _ := sink.snapshot()
			t.Fatalf("expected 3 packets pumped, got %d", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	a.Detach()
	if _, closes := sink.snapshot(); closes != 1 {
		t.Errorf("expected sink closed once, got %d", closes)
	}
}

func TestAttachmentDetachUnblocksRead(t *testing.T) {
	track := newFakeTrack()
	sink := &recordingSink{}

	a := newAttachment("TR_test", track, sink, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		a.Detach()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Detach did not unblock the pump")
	}
}

func TestAttachmentDetachIdempotent(t *testing.T) {
	track := newFakeTrack()
	sink := &recordingSink{}

	a := newAttachment("TR_test", track, sink, zerolog.Nop())
	a.Detach()
	a.Detach()
	a.Detach()

	if _, closes := sink.snapshot(); closes != 1 {
		t.Errorf("expected sink closed once, got %d", closes)
	}
}
