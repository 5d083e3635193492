package agent

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dusk-indust/econswarm/internal/llm"
	"github.com/dusk-indust/econswarm/internal/swarm"
)

// DefaultDomains is the canonical ordering of the specialist agents.
// Pipeline commit order and the sequential refine order both follow it.
var DefaultDomains = []Domain{
	DomainMacro,
	DomainEquities,
	DomainFixedIncome,
	DomainCommodities,
	DomainPolitical,
}

// Registry builds the specialist agents and the aggregator from shared
// backends.
type Registry struct {
	chat   llm.Chat
	fred   FREDData
	params ModelParams
	logger *zap.Logger
}

// NewRegistry creates a registry. fredData may be nil; only the macro
// agent uses it and it degrades gracefully without it.
func NewRegistry(chat llm.Chat, fredData FREDData, params ModelParams, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{chat: chat, fred: fredData, params: params, logger: logger}
}

// Build constructs workers for the requested domains, preserving the
// requested order. An empty request builds DefaultDomains.
func (r *Registry) Build(domains []Domain) ([]swarm.Worker, error) {
	if len(domains) == 0 {
		domains = DefaultDomains
	}

	workers := make([]swarm.Worker, 0, len(domains))
	for _, d := range domains {
		w, err := r.build(d)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, nil
}

func (r *Registry) build(d Domain) (swarm.Worker, error) {
	switch d {
	case DomainMacro:
		return NewMacroAgent(r.chat, r.fred, r.params, r.logger), nil
	case DomainEquities:
		return NewBaseAgent(string(DomainEquities), equitiesPrompt, r.chat, r.params), nil
	case DomainFixedIncome:
		return NewBaseAgent(string(DomainFixedIncome), fixedIncomePrompt, r.chat, r.params), nil
	case DomainCommodities:
		return NewBaseAgent(string(DomainCommodities), commoditiesPrompt, r.chat, r.params), nil
	case DomainPolitical:
		return NewBaseAgent(string(DomainPolitical), politicalPrompt, r.chat, r.params), nil
	}
	return nil, fmt.Errorf("unknown domain %q", d)
}

// Aggregator constructs the synthesis agent that runs after the domain
// stages.
func (r *Registry) Aggregator() swarm.Worker {
	return NewBaseAgent(AggregatorName, aggregatorPrompt, r.chat, r.params)
}
