package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/domain/session"
)

type fakeSessions struct {
	counts session.Counts
	err    error
}

func (f *fakeSessions) IssueToken(context.Context, string) (*session.Credential, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSessions) Counts(context.Context) (session.Counts, error) {
	return f.counts, f.err
}

func TestSnapshot(t *testing.T) {
	svc := NewService(&fakeSessions{counts: session.Counts{Pending: 2, Total: 7, Resolved: 4}}, zerolog.Nop())

	got, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	want := Stats{Pending: 2, Total: 7, Resolved: 4, LearnedAnswers: 0}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSnapshotStoreFailure(t *testing.T) {
	svc := NewService(&fakeSessions{err: errors.New("store down")}, zerolog.Nop())

	if _, err := svc.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error from store failure")
	}
}
