package swarm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed worker invocation.
type ErrorKind int

const (
	// ErrorNone means the invocation succeeded.
	ErrorNone ErrorKind = iota

	// ErrorWorkerFailure means the worker returned an error or panicked.
	ErrorWorkerFailure

	// ErrorTimeout means the worker exceeded its deadline. Counted the same
	// as ErrorWorkerFailure for quorum purposes.
	ErrorTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorWorkerFailure:
		return "worker-failure"
	case ErrorTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ConfigurationError indicates an invalid policy or worker set. It is fatal
// and never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "swarm: configuration error: " + e.Reason
}

// QuorumNotMetError indicates a stage ended below quorum with retries
// exhausted and degradation disallowed (or no successes at all).
type QuorumNotMetError struct {
	Stage         Stage
	FailedWorkers []string
	Required      float64
	Achieved      float64
}

func (e *QuorumNotMetError) Error() string {
	return fmt.Sprintf("swarm: quorum not met in stage %s: %.2f achieved, %.2f required; failed workers: %s",
		e.Stage, e.Achieved, e.Required, strings.Join(e.FailedWorkers, ", "))
}

// AggregationError indicates the aggregator worker failed on every attempt
// within its retry budget.
type AggregationError struct {
	Attempts int
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("swarm: aggregation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// AbortError wraps the cause of a pipeline abort with the state it occurred
// in, so callers can report which stage failed.
type AbortError struct {
	State State
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("swarm: pipeline aborted in state %s: %v", e.State, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

// IsTimeout reports whether err marks a deadline overrun, either from the
// worker itself or from the invocation context.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
