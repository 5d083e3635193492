package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dusk-indust/econswarm/internal/agent"
	"github.com/dusk-indust/econswarm/internal/config"
	"github.com/dusk-indust/econswarm/internal/delivery"
	"github.com/dusk-indust/econswarm/internal/fred"
	"github.com/dusk-indust/econswarm/internal/llm"
	"github.com/dusk-indust/econswarm/internal/remote"
	"github.com/dusk-indust/econswarm/internal/swarm"
)

var (
	runTask     string
	showLedger  bool
	hideReport  bool
	quietEvents bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline and print the report",
	RunE:  runSummary,
}

func init() {
	runCmd.Flags().StringVarP(&runTask, "task", "t", "", "analysis task (overrides the config file)")
	runCmd.Flags().BoolVar(&showLedger, "ledger", false, "print the full contribution ledger after the report")
	runCmd.Flags().BoolVar(&hideReport, "no-report", false, "suppress report output (deliver via notifiers only)")
	runCmd.Flags().BoolVarP(&quietEvents, "quiet", "q", false, "suppress progress output")
}

// buildWorkers constructs the local domain agents plus any configured
// remote workers.
func buildWorkers(ctx context.Context, cfg *config.Config, registry *agent.Registry) ([]swarm.Worker, error) {
	domains := make([]agent.Domain, 0, len(cfg.Domains))
	for _, d := range cfg.Domains {
		domains = append(domains, agent.Domain(d))
	}

	workers, err := registry.Build(domains)
	if err != nil {
		return nil, err
	}

	for _, rw := range cfg.Remote {
		if rw.Name != "" {
			workers = append(workers, remote.NewClient(rw.Endpoint, rw.Name))
			continue
		}
		client, err := remote.Dial(ctx, rw.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("remote worker %s: %w", rw.Endpoint, err)
		}
		workers = append(workers, client)
	}
	return workers, nil
}

// newRegistry wires the chat and FRED backends from config.
func newRegistry(cfg *config.Config) *agent.Registry {
	var chatOpts []llm.Option
	if cfg.Model.BaseURL != "" {
		chatOpts = append(chatOpts, llm.WithBaseURL(cfg.Model.BaseURL))
	}
	chat := llm.NewClient(cfg.Model.APIKey, chatOpts...)

	var fredData agent.FREDData
	if cfg.FRED.APIKey != "" {
		var fredOpts []fred.Option
		if cfg.FRED.BaseURL != "" {
			fredOpts = append(fredOpts, fred.WithBaseURL(cfg.FRED.BaseURL))
		}
		fredOpts = append(fredOpts, fred.WithLogger(logger))
		fredData = fred.NewClient(cfg.FRED.APIKey, fredOpts...)
	} else {
		logger.Info("no FRED API key configured, macro agent runs prompt-only")
	}

	params := agent.ModelParams{
		Model:       cfg.Model.Name,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
	}
	return agent.NewRegistry(chat, fredData, params, logger)
}

// buildPipeline assembles a pipeline from config. notifier may be nil.
func buildPipeline(ctx context.Context, cfg *config.Config, notifier swarm.Notifier) (*swarm.Pipeline, error) {
	registry := newRegistry(cfg)

	workers, err := buildWorkers(ctx, cfg, registry)
	if err != nil {
		return nil, err
	}

	policy, err := cfg.Policy.ReliabilityPolicy()
	if err != nil {
		return nil, err
	}

	opts := []swarm.Option{
		swarm.WithLogger(logger),
		swarm.WithContextLimits(cfg.Context.ContextLimits()),
	}
	if notifier != nil {
		opts = append(opts, swarm.WithNotifier(notifier))
	}

	return swarm.New(workers, registry.Aggregator(), policy, opts...)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runTask != "" {
		cfg.Task = runTask
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var notifiers delivery.Fanout
	if !hideReport {
		notifiers = append(notifiers, delivery.NewWriterNotifier(os.Stdout))
	}
	if cfg.Delivery.SlackWebhook != "" {
		notifiers = append(notifiers, delivery.NewSlackNotifier(cfg.Delivery.SlackWebhook, delivery.WithLogger(logger)))
	}

	pipeline, err := buildPipeline(ctx, cfg, notifiers)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	// Stream progress to stderr so stdout stays clean for the report.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range pipeline.Progress() {
			if !quietEvents {
				fmt.Fprintln(os.Stderr, swarm.FormatProgress(ev))
			}
		}
	}()

	result, runErr := pipeline.Run(ctx, cfg.Task)
	pipeline.Close()
	<-done

	if showLedger {
		fmt.Fprintln(os.Stderr, "\n--- Contribution ledger ---")
		for _, e := range result.Ledger {
			fmt.Fprintf(os.Stderr, "[%3d] %-20s %-18s %d chars\n",
				e.Sequence, e.Stage, e.WorkerName, len(e.Content))
		}
	}

	if runErr != nil {
		logger.Error("run failed", zap.String("run_id", result.RunID), zap.Error(runErr))
		return runErr
	}

	logger.Info("run completed",
		zap.String("run_id", result.RunID),
		zap.Int("ledger_entries", len(result.Ledger)),
		zap.Int("aggregation_retries", len(result.AggregationFailures)))
	return nil
}
