package mcptools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/econswarm/internal/agent"
	"github.com/dusk-indust/econswarm/internal/swarm"
)

// mockRunner is a test double for the pipeline.
type mockRunner struct {
	result *swarm.RunResult
	err    error
	task   string
}

func (m *mockRunner) Run(_ context.Context, task string) (*swarm.RunResult, error) {
	m.task = task
	return m.result, m.err
}

func factoryFor(r *mockRunner, factoryErr error) (RunnerFactory, *[]agent.Domain) {
	var got []agent.Domain
	gotPtr := &got
	return func(domains []agent.Domain) (Runner, error) {
		*gotPtr = domains
		if factoryErr != nil {
			return nil, factoryErr
		}
		return r, nil
	}, gotPtr
}

func TestRunSummary_Completed(t *testing.T) {
	runner := &mockRunner{result: &swarm.RunResult{RunID: "run-1", Report: "the report"}}
	factory, gotDomains := factoryFor(runner, nil)
	svc := NewSummaryService(factory)

	_, out, err := svc.RunSummary(context.Background(), nil, RunSummaryInput{
		Task:    "weekly overview",
		Domains: []string{"macro", "equities"},
	})

	require.NoError(t, err)
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, "the report", out.Report)
	assert.Equal(t, "weekly overview", runner.task)
	assert.Equal(t, []agent.Domain{agent.DomainMacro, agent.DomainEquities}, *gotDomains)
}

func TestRunSummary_DefaultTask(t *testing.T) {
	runner := &mockRunner{result: &swarm.RunResult{RunID: "run-2", Report: "r"}}
	factory, _ := factoryFor(runner, nil)
	svc := NewSummaryService(factory)

	_, out, err := svc.RunSummary(context.Background(), nil, RunSummaryInput{})

	require.NoError(t, err)
	assert.Equal(t, "completed", out.Status)
	assert.NotEmpty(t, runner.task)
}

func TestRunSummary_PipelineFailureIsReportedInOutput(t *testing.T) {
	runner := &mockRunner{
		result: &swarm.RunResult{RunID: "run-3"},
		err:    errors.New("quorum not met"),
	}
	factory, _ := factoryFor(runner, nil)
	svc := NewSummaryService(factory)

	_, out, err := svc.RunSummary(context.Background(), nil, RunSummaryInput{Task: "t"})

	require.NoError(t, err, "run failures are tool output, not protocol errors")
	assert.Equal(t, "failed", out.Status)
	assert.Equal(t, "run-3", out.RunID)
	assert.Contains(t, out.Message, "quorum not met")
}

func TestRunSummary_FactoryError(t *testing.T) {
	factory, _ := factoryFor(nil, errors.New(`unknown domain "derivatives"`))
	svc := NewSummaryService(factory)

	_, out, err := svc.RunSummary(context.Background(), nil, RunSummaryInput{
		Domains: []string{"derivatives"},
	})

	require.NoError(t, err)
	assert.Equal(t, "failed", out.Status)
	assert.Contains(t, out.Message, "derivatives")
}

func TestListDomains(t *testing.T) {
	svc := NewSummaryService(nil)

	_, out, err := svc.ListDomains(context.Background(), nil, ListDomainsInput{})

	require.NoError(t, err)
	require.Len(t, out.Domains, 5)
	assert.Equal(t, "macro", out.Domains[0].Name)
	assert.Equal(t, "political", out.Domains[4].Name)
	for _, d := range out.Domains {
		assert.NotEmpty(t, d.Description, "domain %s has a description", d.Name)
	}
}

func TestNewMCPServer(t *testing.T) {
	factory, _ := factoryFor(&mockRunner{}, nil)
	server := NewMCPServer(factory)
	require.NotNil(t, server)
}
