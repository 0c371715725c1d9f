package livekit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
)

// SinkFactory opens an audio output sink for a subscribed remote track.
// The console has no speaker; agent audio is written to OGG files instead,
// one per track attachment.
type SinkFactory interface {
	Create(trackID string) (media.Writer, error)
}

type oggSinkFactory struct {
	dir string
}

// NewOggSinkFactory writes each attached track to an Opus OGG file under
// dir. The directory is created on first use.
func NewOggSinkFactory(dir string) SinkFactory {
	if dir == "" {
		return discardSinkFactory{}
	}
	return &oggSinkFactory{dir: dir}
}

func (f *oggSinkFactory) Create(trackID string) (media.Writer, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d.ogg", sanitizeTrackID(trackID), time.Now().UnixMilli())
	w, err := oggwriter.New(filepath.Join(f.dir, name), opusSampleRate, opusChannels)
	if err != nil {
		return nil, fmt.Errorf("open ogg writer: %w", err)
	}
	return w, nil
}

// sanitizeTrackID keeps track SIDs filesystem-safe.
func sanitizeTrackID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

// discardSinkFactory drops agent audio. Used when no output directory is
// configured.
type discardSinkFactory struct{}

func (discardSinkFactory) Create(string) (media.Writer, error) {
	return discardWriter{}, nil
}

type discardWriter struct{}

func (discardWriter) WriteRTP(*rtp.Packet) error { return nil }
func (discardWriter) Close() error               { return nil }
