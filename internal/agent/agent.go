// Package agent implements the domain analysts and the aggregator that
// the swarm pipeline coordinates. Each agent wraps a chat model with a
// domain-specific system prompt; the macro agent additionally enriches
// its prompt with live FRED data.
package agent

import "strings"

// Domain identifies a specialist analysis domain.
type Domain string

const (
	DomainMacro       Domain = "macro"
	DomainEquities    Domain = "equities"
	DomainFixedIncome Domain = "fixed-income"
	DomainCommodities Domain = "commodities"
	DomainPolitical   Domain = "political"
)

// AggregatorName is the worker name reserved for the aggregator.
const AggregatorName = "aggregator"

// StoppingToken marks the end of a model response. Models are asked to
// emit it and it is stripped from every output.
const StoppingToken = "<DONE>"

// TrimStoppingToken removes the stopping token and surrounding
// whitespace from a model response.
func TrimStoppingToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, StoppingToken)
	return strings.TrimSpace(s)
}
