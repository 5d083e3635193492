package swarm

import (
	"fmt"
	"time"
)

// ReliabilityPolicy controls quorum gating, retries, degradation, and
// deadlines for a run. There are no hidden defaults: callers configure every
// field explicitly and construction fails fast on invalid values.
type ReliabilityPolicy struct {
	// QuorumFraction is the minimum fraction of workers in a stage that must
	// succeed to advance normally. Must be in (0, 1].
	QuorumFraction float64

	// MaxRetriesPerStage bounds how many times the failed subset of a stage
	// is re-run before degrading or aborting. The aggregator uses the same
	// budget for its own transient-failure retries.
	MaxRetriesPerStage int

	// AllowDegrade permits advancing with partial results when quorum fails
	// but at least one worker succeeded.
	AllowDegrade bool

	// TimeoutPerWorker bounds a single worker invocation. Zero means no
	// per-worker timeout.
	TimeoutPerWorker time.Duration

	// StageDeadline bounds a whole stage. When exceeded, still-running
	// invocations are cancelled and counted as timeouts. Zero means no
	// stage deadline.
	StageDeadline time.Duration

	// MaxConcurrency bounds simultaneously in-flight worker calls within a
	// parallel stage; excess launches queue in FIFO order. Zero means one
	// in-flight call per worker.
	MaxConcurrency int
}

// Validate reports the first invalid policy value as a ConfigurationError.
func (p ReliabilityPolicy) Validate() error {
	if p.QuorumFraction <= 0 || p.QuorumFraction > 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("quorum_fraction must be in (0,1], got %v", p.QuorumFraction)}
	}
	if p.MaxRetriesPerStage < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("max_retries_per_stage must be >= 0, got %d", p.MaxRetriesPerStage)}
	}
	if p.TimeoutPerWorker < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("timeout_per_worker must be >= 0, got %v", p.TimeoutPerWorker)}
	}
	if p.StageDeadline < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("stage_deadline must be >= 0, got %v", p.StageDeadline)}
	}
	if p.MaxConcurrency < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("max_concurrency must be >= 0, got %d", p.MaxConcurrency)}
	}
	return nil
}

// DefaultPolicy returns the policy the CLI ships with. It is an explicit
// constructor, not an implicit fallback: callers opt in.
func DefaultPolicy() ReliabilityPolicy {
	return ReliabilityPolicy{
		QuorumFraction:     0.6,
		MaxRetriesPerStage: 2,
		AllowDegrade:       true,
		TimeoutPerWorker:   2 * time.Minute,
		StageDeadline:      8 * time.Minute,
		MaxConcurrency:     4,
	}
}
