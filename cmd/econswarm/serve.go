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
	"github.com/dusk-indust/econswarm/internal/delivery"
	"github.com/dusk-indust/econswarm/internal/mcptools"
	"github.com/dusk-indust/econswarm/internal/remote"
)

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Run as an MCP server on stdio",
	Long: `Exposes the pipeline as MCP tools (run_summary, list_domains) over
stdio, for use from agent frontends. Reports go to configured notifiers;
stdout carries the MCP protocol.`,
	RunE: serveMCP,
}

var (
	workerDomain string
	workerAddr   string
)

var serveWorkerCmd = &cobra.Command{
	Use:   "serve-worker",
	Short: "Serve a single domain agent over HTTP/JSON-RPC",
	Long: `Runs one domain agent as a standalone worker server so another
econswarm process can include it via remote_workers in its config.`,
	RunE: serveWorker,
}

func init() {
	serveWorkerCmd.Flags().StringVarP(&workerDomain, "domain", "d", "", "domain to serve (macro, equities, fixed-income, commodities, political)")
	serveWorkerCmd.Flags().StringVarP(&workerAddr, "addr", "a", "127.0.0.1:9090", "listen address")
	serveWorkerCmd.MarkFlagRequired("domain")
}

func serveMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol, so reports go to Slack only.
	var notifiers delivery.Fanout
	if cfg.Delivery.SlackWebhook != "" {
		notifiers = append(notifiers, delivery.NewSlackNotifier(cfg.Delivery.SlackWebhook, delivery.WithLogger(logger)))
	}

	factory := func(domains []agent.Domain) (mcptools.Runner, error) {
		runCfg := *cfg
		if len(domains) > 0 {
			runCfg.Domains = make([]string, 0, len(domains))
			for _, d := range domains {
				runCfg.Domains = append(runCfg.Domains, string(d))
			}
		}
		pipeline, err := buildPipeline(ctx, &runCfg, notifiers)
		if err != nil {
			return nil, err
		}
		return pipeline, nil
	}

	server := mcptools.NewMCPServer(factory)
	logger.Info("mcp server listening on stdio")
	return mcptools.RunStdio(ctx, server)
}

func serveWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := newRegistry(cfg)
	workers, err := registry.Build([]agent.Domain{agent.Domain(workerDomain)})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := remote.NewServer(workers[0], logger)
	if err := server.Start(ctx, workerAddr); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "serving %s worker on %s\n", workerDomain, server.Addr())

	<-ctx.Done()
	logger.Info("shutting down worker server", zap.String("domain", workerDomain))
	return server.Stop(context.Background())
}
