package swarm

import (
	"fmt"
	"sync"
)

// Reporter emits progress events through a buffered channel.
type Reporter struct {
	ch        chan ProgressEvent
	closeOnce sync.Once
}

// NewReporter creates a Reporter with a buffered channel of size 64.
func NewReporter() *Reporter {
	return &Reporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (r *Reporter) Emit(event ProgressEvent) {
	select {
	case r.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (r *Reporter) Subscribe() <-chan ProgressEvent {
	return r.ch
}

// Close closes the progress event channel. Safe to call more than once.
func (r *Reporter) Close() {
	r.closeOnce.Do(func() {
		close(r.ch)
	})
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ [%s] %s (pending)", event.Stage, event.Worker)
	case ProgressWorking:
		return fmt.Sprintf("  ● [%s] %s...", event.Stage, event.Worker)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ [%s] %s complete", event.Stage, event.Worker)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ [%s] %s failed: %s", event.Stage, event.Worker, event.Message)
	default:
		return fmt.Sprintf("  ? [%s] %s (unknown status)", event.Stage, event.Worker)
	}
}
