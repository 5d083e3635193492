// Package mcptools exposes the summary pipeline as MCP tools so agent
// frontends can trigger runs over stdio.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/econswarm/internal/agent"
	"github.com/dusk-indust/econswarm/internal/swarm"
)

// version is set by the linker at build time.
var version = "dev"

// Runner executes one summary run. *swarm.Pipeline satisfies it; tests
// substitute their own.
type Runner interface {
	Run(ctx context.Context, task string) (*swarm.RunResult, error)
}

// RunnerFactory builds a Runner for the requested domains. The factory
// runs per call so each run gets a fresh pipeline.
type RunnerFactory func(domains []agent.Domain) (Runner, error)

// SummaryService handles MCP tool calls.
type SummaryService struct {
	factory RunnerFactory
}

func NewSummaryService(factory RunnerFactory) *SummaryService {
	return &SummaryService{factory: factory}
}

// RunSummary executes the full analysis pipeline and returns the report.
// Pipeline failures are reported in the output status rather than as a
// protocol error.
func (s *SummaryService) RunSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunSummaryInput,
) (*mcp.CallToolResult, RunSummaryOutput, error) {
	task := input.Task
	if task == "" {
		task = "Provide a comprehensive summary of current economic conditions."
	}

	domains := make([]agent.Domain, 0, len(input.Domains))
	for _, d := range input.Domains {
		domains = append(domains, agent.Domain(d))
	}

	runner, err := s.factory(domains)
	if err != nil {
		return nil, RunSummaryOutput{
			Status:  "failed",
			Message: err.Error(),
		}, nil
	}

	result, err := runner.Run(ctx, task)
	if err != nil {
		out := RunSummaryOutput{
			Status:  "failed",
			Message: err.Error(),
		}
		if result != nil {
			out.RunID = result.RunID
		}
		return nil, out, nil
	}

	return nil, RunSummaryOutput{
		RunID:  result.RunID,
		Report: result.Report,
		Status: "completed",
	}, nil
}

// domainDescriptions documents each analysis domain for list_domains.
var domainDescriptions = map[agent.Domain]string{
	agent.DomainMacro:       "Macroeconomic indicators and trends from FRED data",
	agent.DomainEquities:    "Stock market indices, sectors, earnings, and financial news",
	agent.DomainFixedIncome: "Treasury yields, the yield curve, and bond markets",
	agent.DomainCommodities: "Metals, energy, and agricultural commodity markets",
	agent.DomainPolitical:   "Political and policy developments affecting the economy",
}

// ListDomains reports the available analysis domains in pipeline order.
func (s *SummaryService) ListDomains(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListDomainsInput,
) (*mcp.CallToolResult, ListDomainsOutput, error) {
	var out ListDomainsOutput
	for _, d := range agent.DefaultDomains {
		out.Domains = append(out.Domains, DomainInfo{
			Name:        string(d),
			Description: domainDescriptions[d],
		})
	}
	return nil, out, nil
}

// NewMCPServer creates an MCP server with the summary tools registered:
// run_summary and list_domains.
func NewMCPServer(factory RunnerFactory) *mcp.Server {
	svc := NewSummaryService(factory)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "econswarm",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_summary",
		Description: "Run the full economic analysis pipeline (parallel analyze, sequential refine, parallel reanalyze, aggregate) and return the final report.",
	}, svc.RunSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_domains",
		Description: "List the available analysis domains and what each one covers.",
	}, svc.ListDomains)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin
// is closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
