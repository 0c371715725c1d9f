package livekit

import (
	"path/filepath"
	"testing"
)

func TestSanitizeTrackID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TR_AbC123", "TR_AbC123"},
		{"TR/..%00", "TR____00"},
		{"track-id", "track-id"},
	}
	for _, tc := range cases {
		if got := sanitizeTrackID(tc.in); got != tc.want {
			t.Errorf("sanitizeTrackID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOggSinkFactoryCreatesFile(t *testing.T) {
	dir := t.TempDir()
	f := NewOggSinkFactory(filepath.Join(dir, "calls"))

	w, err := f.Create("TR_test")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "calls", "TR_test-*.ogg"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one ogg file, got %v", matches)
	}
}

func TestDiscardSinkWhenNoDirConfigured(t *testing.T) {
	f := NewOggSinkFactory("")
	w, err := f.Create("TR_test")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.WriteRTP(nil); err != nil {
		t.Errorf("discard write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("discard close failed: %v", err)
	}
}
