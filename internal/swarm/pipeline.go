package swarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Report is the final output of a successful run.
type Report struct {
	RunID       string
	Task        string
	Content     string
	GeneratedAt time.Time
}

// FailureReport describes an aborted run for delivery and diagnostics.
type FailureReport struct {
	RunID         string
	Task          string
	State         State
	Err           error
	FailedWorkers []string
}

// Notifier is the delivery channel consumed by the controller. The pipeline
// calls exactly one of the two methods exactly once per run.
type Notifier interface {
	Deliver(ctx context.Context, report Report) error
	DeliverFailure(ctx context.Context, failure FailureReport) error
}

// RunResult is returned from every run, successful or not. On abort, Report
// is empty and Ledger holds the partial ledger for diagnostics.
type RunResult struct {
	RunID  string
	Report string
	Ledger []Entry

	// AggregationFailures records failed aggregator attempts that were
	// recovered by retry. Diagnostics only; an exhausted budget surfaces as
	// an AggregationError instead.
	AggregationFailures []WorkerOutcome
}

// Pipeline drives the four-stage sequence and owns the ledger for the
// lifetime of one run. The controller itself is single-threaded; concurrency
// is confined to the executor's parallel stages.
type Pipeline struct {
	domains    []Worker
	aggregator Worker
	policy     ReliabilityPolicy
	checker    *Checker
	logger     *zap.Logger
	notifier   Notifier
	progress   *Reporter
	limits     ContextLimits
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithNotifier sets the delivery channel. Without one, results are only
// returned to the caller.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithContextLimits bounds the rendered context handed to workers.
func WithContextLimits(limits ContextLimits) Option {
	return func(p *Pipeline) { p.limits = limits }
}

// New validates the worker set and policy and assembles a Pipeline.
// Fails fast with a ConfigurationError on an empty domain set, a missing
// aggregator, duplicate worker names, or invalid policy values.
func New(domains []Worker, aggregator Worker, policy ReliabilityPolicy, opts ...Option) (*Pipeline, error) {
	if len(domains) == 0 {
		return nil, &ConfigurationError{Reason: "no domain workers configured"}
	}
	if aggregator == nil {
		return nil, &ConfigurationError{Reason: "no aggregator worker configured"}
	}
	seen := make(map[string]bool, len(domains)+1)
	for _, w := range domains {
		if w.Name() == "" {
			return nil, &ConfigurationError{Reason: "domain worker with empty name"}
		}
		if seen[w.Name()] {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate worker name %q", w.Name())}
		}
		seen[w.Name()] = true
	}
	if seen[aggregator.Name()] {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("aggregator name %q collides with a domain worker", aggregator.Name())}
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		domains:    domains,
		aggregator: aggregator,
		policy:     policy,
		checker:    NewChecker(policy),
		logger:     zap.NewNop(),
		progress:   NewReporter(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Progress returns a channel that emits progress events.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when
// the pipeline is no longer needed.
func (p *Pipeline) Close() {
	p.progress.Close()
}

// Run executes one full pipeline pass for the task. Each run starts from a
// fresh ledger, so re-invoking with the same task is independent of any
// prior run. On abort, the returned error is an AbortError and the
// RunResult carries the partial ledger; an incomplete report is never
// presented as complete.
func (p *Pipeline) Run(ctx context.Context, task string) (*RunResult, error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))
	ledger := NewLedger()
	executor := NewExecutor(p.policy, logger, p.progress.Emit)
	result := &RunResult{RunID: runID}

	state := StateInit
	advance := func(next State) {
		logger.Info("state transition",
			zap.String("from", state.String()),
			zap.String("to", next.String()))
		state = next
	}

	fail := func(err error) (*RunResult, error) {
		abort := &AbortError{State: state, Err: err}
		state = StateFailed
		result.Ledger = ledger.Snapshot()
		logger.Error("pipeline aborted", zap.Error(abort))
		p.notifyFailure(ctx, runID, task, abort)
		return result, abort
	}

	advance(StateParallelAnalyze)
	if err := p.runParallelStage(ctx, executor, StageParallelAnalyze, task, ledger); err != nil {
		return fail(err)
	}

	advance(StateSequentialRefine)
	if err := p.runSequentialStage(ctx, executor, task, ledger); err != nil {
		return fail(err)
	}

	advance(StateParallelReanalyze)
	if err := p.runParallelStage(ctx, executor, StageParallelReanalyze, task, ledger); err != nil {
		return fail(err)
	}

	advance(StateAggregate)
	report, aggFailures, err := p.runAggregate(ctx, executor, task, ledger)
	result.AggregationFailures = aggFailures
	if err != nil {
		return fail(err)
	}
	ledger.Append(p.aggregator.Name(), StageAggregate, report)

	advance(StateDone)
	result.Report = report
	result.Ledger = ledger.Snapshot()

	p.notifySuccess(ctx, Report{
		RunID:       runID,
		Task:        task,
		Content:     report,
		GeneratedAt: time.Now(),
	})
	return result, nil
}

// runParallelStage executes a parallel stage with retry gating. The context
// snapshot is taken once at stage start: retried workers see the same ledger
// prefix as the first attempt, since nothing commits mid-stage.
func (p *Pipeline) runParallelStage(ctx context.Context, executor *Executor, stage Stage, task string, ledger *Ledger) error {
	contextText := RenderContext(ledger.Snapshot(), p.limits)

	merged := make(map[string]WorkerOutcome, len(p.domains))
	pending := p.domains

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := executor.RunParallel(ctx, stage, task, pending, contextText)
		for name, o := range res.Outcomes {
			merged[name] = o
		}

		decision := p.checker.Evaluate(StageResult{Stage: stage, Outcomes: merged}, attempt)
		done, err := p.applyDecision(stage, decision, attempt, merged, ledger)
		if done || err != nil {
			return err
		}
		pending = p.workersNamed(decision.Retry)
	}
}

// runSequentialStage executes the refine stage: workers run one at a time in
// registration order, each seeing the stage-start snapshot plus all prior
// refine outputs. Retries re-run only the failed subset, with the successes
// already visible in their context.
func (p *Pipeline) runSequentialStage(ctx context.Context, executor *Executor, task string, ledger *Ledger) error {
	snapshot := ledger.Snapshot()

	merged := make(map[string]WorkerOutcome, len(p.domains))
	pending := p.domains

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		base := make([]Entry, len(snapshot))
		copy(base, snapshot)
		for _, w := range p.domains {
			if o, ok := merged[w.Name()]; ok && o.Succeeded() {
				base = append(base, Entry{WorkerName: o.WorkerName, Stage: StageSequentialRefine, Content: o.Result})
			}
		}

		res := executor.RunSequential(ctx, StageSequentialRefine, task, pending, base, p.limits)
		for name, o := range res.Outcomes {
			merged[name] = o
		}

		decision := p.checker.Evaluate(StageResult{Stage: StageSequentialRefine, Outcomes: merged}, attempt)
		done, err := p.applyDecision(StageSequentialRefine, decision, attempt, merged, ledger)
		if done || err != nil {
			return err
		}
		pending = p.workersNamed(decision.Retry)
	}
}

// applyDecision commits and reports for terminal decisions. It returns
// done=true when the stage is finished (advance or degrade), an error on
// abort, and (false, nil) when the stage should retry.
func (p *Pipeline) applyDecision(stage Stage, decision Decision, attempt int, merged map[string]WorkerOutcome, ledger *Ledger) (bool, error) {
	switch decision.Kind {
	case DecisionAdvance, DecisionDegrade:
		if decision.Kind == DecisionDegrade {
			p.logger.Warn("advancing degraded",
				zap.String("stage", stage.String()),
				zap.Strings("failed_workers", failedWorkers(StageResult{Stage: stage, Outcomes: merged})))
		}
		p.commit(ledger, stage, merged)
		return true, nil
	case DecisionRetry:
		p.logger.Info("retrying stage subset",
			zap.String("stage", stage.String()),
			zap.Int("attempt", attempt+1),
			zap.Strings("workers", decision.Retry))
		return false, nil
	default:
		return false, decision.Reason
	}
}

// commit appends successful outcomes to the ledger in worker registration
// order, so commit order is deterministic for identical outcomes.
func (p *Pipeline) commit(ledger *Ledger, stage Stage, merged map[string]WorkerOutcome) {
	for _, w := range p.domains {
		if o, ok := merged[w.Name()]; ok && o.Succeeded() {
			ledger.Append(o.WorkerName, stage, o.Result)
		}
	}
}

// runAggregate invokes the aggregator against the full ledger. The single
// worker is not subject to quorum; transient failures are retried up to the
// stage retry budget before surfacing an AggregationError.
func (p *Pipeline) runAggregate(ctx context.Context, executor *Executor, task string, ledger *Ledger) (string, []WorkerOutcome, error) {
	contextText := RenderContext(ledger.Snapshot(), p.limits)

	var failures []WorkerOutcome
	for attempt := 0; attempt <= p.policy.MaxRetriesPerStage; attempt++ {
		res := executor.RunParallel(ctx, StageAggregate, task, []Worker{p.aggregator}, contextText)
		outcome := res.Outcomes[p.aggregator.Name()]
		if outcome.Succeeded() {
			return outcome.Result, failures, nil
		}
		failures = append(failures, outcome)
		if ctx.Err() != nil {
			break
		}
	}

	last := failures[len(failures)-1]
	return "", failures, &AggregationError{Attempts: len(failures), Err: last.Err}
}

func (p *Pipeline) workersNamed(names []string) []Worker {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	var out []Worker
	for _, w := range p.domains {
		if set[w.Name()] {
			out = append(out, w)
		}
	}
	return out
}

func (p *Pipeline) notifySuccess(ctx context.Context, report Report) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Deliver(ctx, report); err != nil {
		p.logger.Error("report delivery failed", zap.Error(err))
	}
}

func (p *Pipeline) notifyFailure(ctx context.Context, runID, task string, abort *AbortError) {
	if p.notifier == nil {
		return
	}
	failure := FailureReport{
		RunID: runID,
		Task:  task,
		State: abort.State,
		Err:   abort,
	}
	var quorumErr *QuorumNotMetError
	if errors.As(abort, &quorumErr) {
		failure.FailedWorkers = quorumErr.FailedWorkers
	}
	if err := p.notifier.DeliverFailure(ctx, failure); err != nil {
		p.logger.Error("failure delivery failed", zap.Error(err))
	}
}
