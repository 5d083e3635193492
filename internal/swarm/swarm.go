// Package swarm implements the staged orchestration engine that drives a set
// of independent domain workers and a final aggregator through a
// parallel → sequential → parallel → aggregate pipeline, producing one
// combined report per run.
package swarm

import "context"

// Stage identifies a pipeline stage whose output is committed to the ledger.
type Stage int

const (
	StageParallelAnalyze Stage = iota
	StageSequentialRefine
	StageParallelReanalyze
	StageAggregate
)

func (s Stage) String() string {
	names := [...]string{
		"parallel-analyze",
		"sequential-refine",
		"parallel-reanalyze",
		"aggregate",
	}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// State is a pipeline controller state. Stages map 1:1 onto the working
// states; Init, Done, and Failed bracket them.
type State int

const (
	StateInit State = iota
	StateParallelAnalyze
	StateSequentialRefine
	StateParallelReanalyze
	StateAggregate
	StateDone
	StateFailed
)

func (s State) String() string {
	names := [...]string{
		"init",
		"parallel-analyze",
		"sequential-refine",
		"parallel-reanalyze",
		"aggregate",
		"done",
		"failed",
	}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Worker is a named unit that produces a text result from a task and the
// accumulated conversation context, or fails. Implementations must be safe
// to call concurrently with other workers, must respect ctx cancellation,
// and must not mutate shared state beyond their own return value.
type Worker interface {
	Name() string
	Invoke(ctx context.Context, task, contextText string) (string, error)
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc struct {
	WorkerName string
	Fn         func(ctx context.Context, task, contextText string) (string, error)
}

func (w WorkerFunc) Name() string { return w.WorkerName }

func (w WorkerFunc) Invoke(ctx context.Context, task, contextText string) (string, error) {
	return w.Fn(ctx, task, contextText)
}

// ProgressStatus is the state of a worker invocation within a stage.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent is emitted to observers during pipeline execution.
type ProgressEvent struct {
	Stage   Stage
	Worker  string
	Status  ProgressStatus
	Message string
}
