package call

import "sync"

// transcriptCapacity bounds the operator-visible log to the most recent
// entries; older entries are evicted oldest-first.
const transcriptCapacity = 5

// Entry is one immutable line of the session transcript.
type Entry struct {
	Text string
}

// Transcript is a bounded, append-only, in-memory log of session events.
// Safe for concurrent use; media events and UI reads race freely.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append inserts an entry at the end, then truncates to capacity.
func (t *Transcript) Append(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Entry{Text: text})
	if len(t.entries) > transcriptCapacity {
		t.entries = t.entries[len(t.entries)-transcriptCapacity:]
	}
}

// Entries returns a snapshot of the log in insertion order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
