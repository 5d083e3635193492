package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dusk-indust/econswarm/internal/fred"
	"github.com/dusk-indust/econswarm/internal/llm"
	"github.com/dusk-indust/econswarm/internal/swarm"
)

var _ swarm.Worker = (*MacroAgent)(nil)

// FREDData is the slice of the FRED client the macro agent consumes.
type FREDData interface {
	AnalyzeIndicators(ctx context.Context, names []string) ([]fred.IndicatorSummary, error)
	AssessRecessionRisk(ctx context.Context) (fred.RecessionRisk, error)
	RecentReleases(ctx context.Context, sources []string, limitPerSource int) ([]fred.Release, error)
}

// MacroAgent analyzes macroeconomic conditions. Before each invocation
// it pulls current indicator data, a recession risk assessment, and
// recent data releases from FRED and folds them into the task. A nil or
// unreachable FRED backend degrades the agent to prompt-only analysis
// rather than failing the stage.
type MacroAgent struct {
	base   *BaseAgent
	fred   FREDData
	logger *zap.Logger
}

func NewMacroAgent(chat llm.Chat, fredData FREDData, params ModelParams, logger *zap.Logger) *MacroAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MacroAgent{
		base:   NewBaseAgent(string(DomainMacro), macroPrompt, chat, params),
		fred:   fredData,
		logger: logger,
	}
}

func (m *MacroAgent) Name() string {
	return m.base.Name()
}

func (m *MacroAgent) Invoke(ctx context.Context, task, contextText string) (string, error) {
	data := m.gatherData(ctx)
	if data != "" {
		task = data + "\n" + task
	}
	return m.base.Invoke(ctx, task, contextText)
}

// gatherData collects the FRED-derived sections. Each section is
// independent; a failed fetch is logged and skipped.
func (m *MacroAgent) gatherData(ctx context.Context) string {
	if m.fred == nil {
		return ""
	}

	var sb strings.Builder

	summaries, err := m.fred.AnalyzeIndicators(ctx, fred.KeyIndicators)
	if err != nil {
		m.logger.Warn("indicator analysis unavailable", zap.Error(err))
	} else if len(summaries) > 0 {
		sb.WriteString("Economic indicators:\n")
		for _, s := range summaries {
			sb.WriteString(fmt.Sprintf("- %s: %.2f (previous %.2f, change %+.2f%%, trend %s, as of %s)\n",
				s.Name, s.Current, s.Previous, s.ChangePct, s.Trend, s.LastUpdated.Format("2006-01-02")))
		}
		sb.WriteString("\n")
	}

	risk, err := m.fred.AssessRecessionRisk(ctx)
	if err != nil {
		m.logger.Warn("recession risk assessment unavailable", zap.Error(err))
	} else {
		sb.WriteString(fmt.Sprintf("Recession risk: %s (%d factors)\n", risk.Level, risk.Factors))
		for _, d := range risk.Details {
			sb.WriteString("- " + d + "\n")
		}
		sb.WriteString("\n")
	}

	releases, err := m.fred.RecentReleases(ctx, nil, 5)
	if len(releases) > 0 {
		ranked := fred.RankReleases(releases, nil)
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		sb.WriteString("Notable recent data releases:\n")
		for _, r := range ranked {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", r.Name, strings.ToUpper(r.Source)))
		}
		sb.WriteString("\n")
	} else if err != nil {
		m.logger.Warn("recent releases unavailable", zap.Error(err))
	}

	return sb.String()
}
