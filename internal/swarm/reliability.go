package swarm

import "sort"

// DecisionKind is the action the controller takes at a stage boundary.
type DecisionKind int

const (
	// DecisionAdvance commits successful outcomes and moves to the next stage.
	DecisionAdvance DecisionKind = iota

	// DecisionRetry re-runs exactly the failed workers of the stage.
	DecisionRetry

	// DecisionDegrade advances with partial results below quorum.
	DecisionDegrade

	// DecisionAbort halts the pipeline.
	DecisionAbort
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionAdvance:
		return "advance"
	case DecisionRetry:
		return "retry"
	case DecisionDegrade:
		return "degrade"
	case DecisionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Decision is the reliability checker's verdict for one stage attempt.
type Decision struct {
	Kind DecisionKind

	// Retry names the workers to re-run when Kind is DecisionRetry.
	Retry []string

	// Reason carries the abort cause when Kind is DecisionAbort.
	Reason error
}

// Checker gates stage advancement against the reliability policy. Checks run
// only at stage boundaries, never mid-flight.
type Checker struct {
	policy ReliabilityPolicy
}

// NewChecker creates a Checker for the given policy.
func NewChecker(policy ReliabilityPolicy) *Checker {
	return &Checker{policy: policy}
}

// Evaluate applies the decision rule to the merged outcomes of a stage:
// success fraction at or above quorum advances; otherwise the failed subset
// is retried while attempts remain; otherwise degrade if allowed and at
// least one worker succeeded; otherwise abort. attempt counts completed
// executions of the stage's failed subset, starting at 0.
func (c *Checker) Evaluate(res StageResult, attempt int) Decision {
	fraction := res.SuccessFraction()
	if fraction >= c.policy.QuorumFraction {
		return Decision{Kind: DecisionAdvance}
	}

	failed := failedWorkers(res)

	if attempt < c.policy.MaxRetriesPerStage {
		return Decision{Kind: DecisionRetry, Retry: failed}
	}

	if c.policy.AllowDegrade && res.SuccessCount() >= 1 {
		return Decision{Kind: DecisionDegrade}
	}

	return Decision{
		Kind: DecisionAbort,
		Reason: &QuorumNotMetError{
			Stage:         res.Stage,
			FailedWorkers: failed,
			Required:      c.policy.QuorumFraction,
			Achieved:      fraction,
		},
	}
}

// failedWorkers lists the names of unsuccessful outcomes in sorted order,
// so retry subsets and error messages are deterministic.
func failedWorkers(res StageResult) []string {
	var failed []string
	for name, o := range res.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}
