package livekit

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog"
)

// rtpReader is the slice of *webrtc.TrackRemote the attachment pump needs.
type rtpReader interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
	SetReadDeadline(t time.Time) error
}

// attachment pumps one remote audio track into an output sink. Detach stops
// the pump and closes the sink exactly once; the read deadline is how a
// blocked ReadRTP gets interrupted.
type attachment struct {
	id    string
	track rtpReader
	sink  media.Writer
	log   zerolog.Logger

	done       chan struct{}
	wg         sync.WaitGroup
	detachOnce sync.Once
}

func newAttachment(id string, track rtpReader, sink media.Writer, log zerolog.Logger) *attachment {
	a := &attachment{
		id:    id,
		track: track,
		sink:  sink,
		log:   log.With().Str("component", "audio-attachment").Str("track", id).Logger(),
		done:  make(chan struct{}),
	}
	a.wg.Add(1)
	go a.pump()
	return a
}

func (a *attachment) pump() {
	defer a.wg.Done()

	for {
		pkt, _, err := a.track.ReadRTP()
		if err != nil {
			select {
			case <-a.done:
				return
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if !errors.Is(err, io.EOF) {
				a.log.Warn().Err(err).Msg("track read failed, stopping pump")
			}
			return
		}
		if err := a.sink.WriteRTP(pkt); err != nil {
			a.log.Warn().Err(err).Msg("sink write failed, stopping pump")
			return
		}
	}
}

// Detach stops the pump, waits for it, and closes the sink. Safe to call
// repeatedly and from multiple goroutines.
func (a *attachment) Detach() {
	a.detachOnce.Do(func() {
		close(a.done)
		// Unblocks a pump stuck in ReadRTP.
		if err := a.track.SetReadDeadline(time.Now()); err != nil {
			a.log.Debug().Err(err).Msg("failed to set read deadline")
		}
		a.wg.Wait()
		if err := a.sink.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close sink")
		}
	})
}
