package livekit

import (
	"context"
	"fmt"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/call"
)

// Dialer connects the console to LiveKit rooms. It implements call.Dialer.
type Dialer struct {
	wsURL     string
	micSource string
	sinks     SinkFactory
	log       zerolog.Logger
}

// NewDialer creates a room dialer.
func NewDialer(wsURL, micSource string, sinks SinkFactory, log zerolog.Logger) *Dialer {
	return &Dialer{
		wsURL:     wsURL,
		micSource: micSource,
		sinks:     sinks,
		log:       log.With().Str("component", "room-dialer").Logger(),
	}
}

// Dial joins the room with the given token. The event handler is wired into
// the room callbacks before the connection is initiated; ConnectedEvent is
// emitted once the join succeeds. The returned session is already live.
func (d *Dialer) Dial(ctx context.Context, room, token string, h func(call.Event)) (call.Session, error) {
	sess := newRoomSession(d.micSource, d.sinks, d.log)

	cb := &lksdk.RoomCallback{
		OnDisconnected: func() {
			h(call.DisconnectedEvent{})
		},
		OnActiveSpeakersChanged: func(speakers []lksdk.Participant) {
			h(call.VoiceActivityEvent{Active: len(speakers) > 0})
		},
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackSubscribed: func(track *webrtc.TrackRemote, pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
				if track.Kind() != webrtc.RTPCodecTypeAudio {
					return
				}
				if err := sess.attachTrack(pub.SID(), track); err != nil {
					h(call.SessionErrorEvent{Op: "attach audio track", Err: err})
					return
				}
				h(call.TrackSubscribedEvent{TrackID: pub.SID()})
			},
			OnTrackUnsubscribed: func(track *webrtc.TrackRemote, pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
				if track.Kind() != webrtc.RTPCodecTypeAudio {
					return
				}
				sess.detachTrack(pub.SID())
				h(call.TrackUnsubscribedEvent{TrackID: pub.SID()})
			},
			OnDataPacket: func(data lksdk.DataPacket, params lksdk.DataReceiveParams) {
				if user, ok := data.(*lksdk.UserDataPacket); ok {
					h(call.DataEvent{Text: string(user.Payload)})
				}
			},
		},
	}

	d.log.Info().Str("room", room).Str("url", d.wsURL).Msg("joining room")

	lkRoom, err := d.connect(ctx, token, cb)
	if err != nil {
		return nil, err
	}

	sess.setRoom(lkRoom)
	h(call.ConnectedEvent{})
	return sess, nil
}

// connect runs the SDK join under the caller's context. The SDK call itself
// is not context-aware, so a join that completes after the context expired
// is disconnected immediately.
func (d *Dialer) connect(ctx context.Context, token string, cb *lksdk.RoomCallback) (*lksdk.Room, error) {
	type result struct {
		room *lksdk.Room
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		room, err := lksdk.ConnectToRoomWithToken(d.wsURL, token, cb, lksdk.WithAutoSubscribe(true))
		ch <- result{room: room, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.room != nil {
				r.room.Disconnect()
			}
		}()
		return nil, fmt.Errorf("join room: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("join room: %w", r.err)
		}
		return r.room, nil
	}
}
