package swarm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkerOutcome is the result of one worker invocation within a stage.
// Exactly one of Result / Err is set.
type WorkerOutcome struct {
	WorkerName string
	Stage      Stage
	Result     string
	Err        error
	Kind       ErrorKind
	Duration   time.Duration
}

// Succeeded reports whether the invocation produced a result.
func (o WorkerOutcome) Succeeded() bool { return o.Err == nil }

// StageResult collects per-worker outcomes for one stage attempt (or, after
// retries, the merged outcomes across attempts). It is consumed by the
// reliability checker and discarded once the pipeline advances.
type StageResult struct {
	Stage     Stage
	Outcomes  map[string]WorkerOutcome
	QuorumMet bool
}

// SuccessCount returns the number of successful outcomes.
func (r StageResult) SuccessCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// SuccessFraction returns successes / total outcomes. Zero outcomes yield 0.
func (r StageResult) SuccessFraction() float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	return float64(r.SuccessCount()) / float64(len(r.Outcomes))
}

// Executor runs a set of workers against a shared task and context snapshot,
// collecting per-worker outcomes with timeout and isolation. It never writes
// the ledger; the controller commits returned results.
type Executor struct {
	policy     ReliabilityPolicy
	logger     *zap.Logger
	onProgress func(ProgressEvent)
}

// NewExecutor creates an Executor. onProgress may be nil; logger must not be.
func NewExecutor(policy ReliabilityPolicy, logger *zap.Logger, onProgress func(ProgressEvent)) *Executor {
	return &Executor{
		policy:     policy,
		logger:     logger,
		onProgress: onProgress,
	}
}

// RunParallel launches one invocation per worker. Invocations are isolated:
// a failure or timeout in one never cancels the others. MaxConcurrency
// bounds in-flight calls, with excess launches queued in FIFO order. The
// optional stage deadline cancels still-running invocations cooperatively;
// those count as timeouts.
func (e *Executor) RunParallel(ctx context.Context, stage Stage, task string, workers []Worker, contextText string) StageResult {
	stageCtx := ctx
	if e.policy.StageDeadline > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, e.policy.StageDeadline)
		defer cancel()
	}

	outcomes := make([]WorkerOutcome, len(workers))

	// errgroup is used purely for bounded fan-out and joining; goroutines
	// never return errors, so one worker's failure cannot cancel siblings.
	g := new(errgroup.Group)
	if e.policy.MaxConcurrency > 0 {
		g.SetLimit(e.policy.MaxConcurrency)
	}

	for i, w := range workers {
		e.emit(ProgressEvent{Stage: stage, Worker: w.Name(), Status: ProgressPending})
		g.Go(func() error {
			outcomes[i] = e.invoke(stageCtx, stage, w, task, contextText)
			return nil
		})
	}
	_ = g.Wait()

	return collect(stage, outcomes)
}

// RunSequential runs workers one at a time in the given order. Each worker's
// context is the shared snapshot plus the outputs of every preceding worker
// in this same invocation, so sequential ordering is observable, not just
// logical. Failed workers contribute nothing to later contexts.
func (e *Executor) RunSequential(ctx context.Context, stage Stage, task string, workers []Worker, snapshot []Entry, limits ContextLimits) StageResult {
	stageCtx := ctx
	if e.policy.StageDeadline > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, e.policy.StageDeadline)
		defer cancel()
	}

	pending := make([]Entry, len(snapshot))
	copy(pending, snapshot)

	outcomes := make([]WorkerOutcome, len(workers))
	for i, w := range workers {
		e.emit(ProgressEvent{Stage: stage, Worker: w.Name(), Status: ProgressPending})

		contextText := RenderContext(pending, limits)
		outcomes[i] = e.invoke(stageCtx, stage, w, task, contextText)

		if outcomes[i].Succeeded() {
			pending = append(pending, Entry{
				WorkerName: w.Name(),
				Stage:      stage,
				Content:    outcomes[i].Result,
			})
		}
	}

	return collect(stage, outcomes)
}

// invoke runs a single worker with the per-worker timeout, classifying the
// outcome. A panicking worker is contained and recorded as a failure.
func (e *Executor) invoke(ctx context.Context, stage Stage, w Worker, task, contextText string) (out WorkerOutcome) {
	e.emit(ProgressEvent{Stage: stage, Worker: w.Name(), Status: ProgressWorking})

	wctx := ctx
	if e.policy.TimeoutPerWorker > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, e.policy.TimeoutPerWorker)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = WorkerOutcome{
				WorkerName: w.Name(),
				Stage:      stage,
				Err:        fmt.Errorf("worker %s panicked: %v", w.Name(), r),
				Kind:       ErrorWorkerFailure,
				Duration:   time.Since(start),
			}
			e.logger.Error("worker panicked",
				zap.String("stage", stage.String()),
				zap.String("worker", w.Name()),
				zap.Any("panic", r))
			e.emit(ProgressEvent{Stage: stage, Worker: w.Name(), Status: ProgressFailed, Message: out.Err.Error()})
		}
	}()

	result, err := w.Invoke(wctx, task, contextText)
	duration := time.Since(start)

	if err != nil {
		kind := ErrorWorkerFailure
		if IsTimeout(err) || wctx.Err() == context.DeadlineExceeded {
			kind = ErrorTimeout
		}
		e.logger.Warn("worker failed",
			zap.String("stage", stage.String()),
			zap.String("worker", w.Name()),
			zap.String("kind", kind.String()),
			zap.Duration("duration", duration),
			zap.Error(err))
		e.emit(ProgressEvent{Stage: stage, Worker: w.Name(), Status: ProgressFailed, Message: err.Error()})
		return WorkerOutcome{
			WorkerName: w.Name(),
			Stage:      stage,
			Err:        err,
			Kind:       kind,
			Duration:   duration,
		}
	}

	e.logger.Debug("worker completed",
		zap.String("stage", stage.String()),
		zap.String("worker", w.Name()),
		zap.Duration("duration", duration))
	e.emit(ProgressEvent{Stage: stage, Worker: w.Name(), Status: ProgressComplete})
	return WorkerOutcome{
		WorkerName: w.Name(),
		Stage:      stage,
		Result:     result,
		Duration:   duration,
	}
}

func (e *Executor) emit(ev ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(ev)
	}
}

func collect(stage Stage, outcomes []WorkerOutcome) StageResult {
	m := make(map[string]WorkerOutcome, len(outcomes))
	for _, o := range outcomes {
		m[o.WorkerName] = o
	}
	return StageResult{Stage: stage, Outcomes: m}
}
