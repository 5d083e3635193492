package swarm

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Entry is one committed worker output in the conversation ledger.
type Entry struct {
	WorkerName string
	Stage      Stage
	Content    string
	Sequence   int
	Timestamp  time.Time
}

// Ledger is the append-only ordered record of committed worker outputs for
// one run. It is owned by the pipeline controller; workers never write it
// directly. Append is the only concurrent-write path.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	nextSeq int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append assigns the next sequence number atomically and stores the entry.
// Safe under concurrent callers; no two callers receive the same sequence.
func (l *Ledger) Append(workerName string, stage Stage, content string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.nextSeq
	l.nextSeq++
	l.entries = append(l.entries, Entry{
		WorkerName: workerName,
		Stage:      stage,
		Content:    content,
		Sequence:   seq,
		Timestamp:  time.Now(),
	})
	return seq
}

// Snapshot returns a point-in-time copy of all entries appended so far.
// Later appends never change a previously taken snapshot.
func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of committed entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ContextLimits bounds the rendered context. Zero values mean unlimited.
type ContextLimits struct {
	MaxEntries int
	MaxChars   int
}

// RenderContext serializes entries into the context text handed to a worker.
// Serialization is deterministic over (stage, worker, content); sequence
// numbers and timestamps are deliberately excluded so identical runs render
// identical context. When limits apply, the OLDEST entries are dropped
// first: later stages care most about the freshest cross-domain findings,
// so truncation discards from the front of the ledger.
func RenderContext(entries []Entry, limits ContextLimits) string {
	if limits.MaxEntries > 0 && len(entries) > limits.MaxEntries {
		entries = entries[len(entries)-limits.MaxEntries:]
	}

	rendered := renderAll(entries)

	if limits.MaxChars > 0 && len(rendered) > limits.MaxChars {
		// Re-render dropping whole entries from the front until it fits.
		// Entries are never split mid-content.
		for i := 1; i < len(entries); i++ {
			candidate := renderAll(entries[i:])
			if len(candidate) <= limits.MaxChars {
				return candidate
			}
		}
		return ""
	}
	return rendered
}

func renderAll(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "### [%s] %s\n\n%s\n\n", e.Stage, e.WorkerName, e.Content)
	}
	return b.String()
}
