package livekit

import (
	"fmt"
	"sync"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

const (
	opusSampleRate = 48000
	opusChannels   = 1

	// Bitrate handed to the silence provider when no microphone source is
	// configured.
	silentTrackBitrate = 32000
)

// roomSession is one live LiveKit room connection. It implements
// call.Session: the local microphone publication plus every remote audio
// attachment, released together by Close.
type roomSession struct {
	micSource string
	sinks     SinkFactory
	log       zerolog.Logger

	mu          sync.Mutex
	room        *lksdk.Room
	micPub      *lksdk.LocalTrackPublication
	attachments map[string]*attachment

	closeOnce sync.Once
}

func newRoomSession(micSource string, sinks SinkFactory, log zerolog.Logger) *roomSession {
	return &roomSession{
		micSource:   micSource,
		sinks:       sinks,
		log:         log.With().Str("component", "room-session").Logger(),
		attachments: make(map[string]*attachment),
	}
}

// EnableMicrophone publishes the local audio track. With a configured
// source file the file's Opus stream is published; otherwise a silent
// track keeps the audio path alive so mute state is still observable.
func (s *roomSession) EnableMicrophone() error {
	s.mu.Lock()
	room := s.room
	s.mu.Unlock()
	if room == nil {
		return fmt.Errorf("room not connected")
	}

	opts := &lksdk.TrackPublicationOptions{
		Name:   "microphone",
		Source: livekit.TrackSource_MICROPHONE,
	}

	var pub *lksdk.LocalTrackPublication
	if s.micSource != "" {
		track, err := lksdk.NewLocalFileTrack(s.micSource)
		if err != nil {
			return fmt.Errorf("open microphone source: %w", err)
		}
		pub, err = room.LocalParticipant.PublishTrack(track, opts)
		if err != nil {
			return fmt.Errorf("publish microphone: %w", err)
		}
	} else {
		track, err := lksdk.NewLocalSampleTrack(webrtc.RTPCodecCapability{
			MimeType:  webrtc.MimeTypeOpus,
			ClockRate: opusSampleRate,
			Channels:  opusChannels,
		})
		if err != nil {
			return fmt.Errorf("create microphone track: %w", err)
		}
		if err := track.StartWrite(lksdk.NewNullSampleProvider(silentTrackBitrate), nil); err != nil {
			return fmt.Errorf("start microphone track: %w", err)
		}
		pub, err = room.LocalParticipant.PublishTrack(track, opts)
		if err != nil {
			return fmt.Errorf("publish microphone: %w", err)
		}
	}

	s.mu.Lock()
	s.micPub = pub
	s.mu.Unlock()

	s.log.Info().Str("source", s.micSource).Msg("microphone published")
	return nil
}

// SetMicEnabled flips the mute flag on the microphone publication.
func (s *roomSession) SetMicEnabled(enabled bool) error {
	s.mu.Lock()
	pub := s.micPub
	s.mu.Unlock()
	if pub == nil {
		return fmt.Errorf("microphone not published")
	}
	pub.SetMuted(!enabled)
	return nil
}

// Close detaches every remote audio attachment and leaves the room. Safe to
// call repeatedly.
func (s *roomSession) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		attachments := make([]*attachment, 0, len(s.attachments))
		for _, a := range s.attachments {
			attachments = append(attachments, a)
		}
		s.attachments = make(map[string]*attachment)
		room := s.room
		s.room = nil
		s.mu.Unlock()

		for _, a := range attachments {
			a.Detach()
		}
		if room != nil {
			room.Disconnect()
		}
		s.log.Info().Msg("session closed")
	})
}

func (s *roomSession) setRoom(room *lksdk.Room) {
	s.mu.Lock()
	s.room = room
	s.mu.Unlock()
}

// attachTrack starts pumping a subscribed remote audio track into a fresh
// sink. An existing attachment for the same track is replaced.
func (s *roomSession) attachTrack(trackID string, track rtpReader) error {
	sink, err := s.sinks.Create(trackID)
	if err != nil {
		return fmt.Errorf("create sink: %w", err)
	}

	a := newAttachment(trackID, track, sink, s.log)

	s.mu.Lock()
	prev := s.attachments[trackID]
	s.attachments[trackID] = a
	s.mu.Unlock()

	if prev != nil {
		prev.Detach()
	}
	return nil
}

// detachTrack stops the pump for an unsubscribed track.
func (s *roomSession) detachTrack(trackID string) {
	s.mu.Lock()
	a := s.attachments[trackID]
	delete(s.attachments, trackID)
	s.mu.Unlock()

	if a != nil {
		a.Detach()
	}
}
