// Package delivery implements report notifiers. The pipeline calls a
// notifier exactly once per run, with either the final report or a
// failure summary.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dusk-indust/econswarm/internal/swarm"
)

// Compile-time interface checks.
var (
	_ swarm.Notifier = (*WriterNotifier)(nil)
	_ swarm.Notifier = (*SlackNotifier)(nil)
)

// WriterNotifier writes reports to an io.Writer, typically stdout or a
// file.
type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Deliver(_ context.Context, report swarm.Report) error {
	var sb strings.Builder
	sb.WriteString("# Economic Summary\n\n")
	fmt.Fprintf(&sb, "Run %s | %s\n\n", report.RunID, report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Task: %s\n\n", report.Task)
	sb.WriteString(report.Content)
	sb.WriteString("\n")

	_, err := io.WriteString(n.w, sb.String())
	return err
}

func (n *WriterNotifier) DeliverFailure(_ context.Context, failure swarm.FailureReport) error {
	var sb strings.Builder
	sb.WriteString("# Run Failed\n\n")
	fmt.Fprintf(&sb, "Run %s | state %s\n\n", failure.RunID, failure.State)
	fmt.Fprintf(&sb, "Task: %s\n\n", failure.Task)
	fmt.Fprintf(&sb, "Error: %v\n", failure.Err)
	if len(failure.FailedWorkers) > 0 {
		fmt.Fprintf(&sb, "Failed workers: %s\n", strings.Join(failure.FailedWorkers, ", "))
	}

	_, err := io.WriteString(n.w, sb.String())
	return err
}

// SlackNotifier posts reports to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

type SlackOption func(*SlackNotifier)

func WithHTTPClient(hc *http.Client) SlackOption {
	return func(n *SlackNotifier) { n.httpClient = hc }
}

func WithLogger(logger *zap.Logger) SlackOption {
	return func(n *SlackNotifier) { n.logger = logger }
}

func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	n := &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// maxSlackChars keeps messages under Slack's block text limits.
const maxSlackChars = 3500

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "\n... (truncated)"
}

func (n *SlackNotifier) Deliver(ctx context.Context, report swarm.Report) error {
	text := fmt.Sprintf("*Economic Summary* (run `%s`)\n%s",
		report.RunID, truncate(report.Content, maxSlackChars))
	return n.post(ctx, text)
}

func (n *SlackNotifier) DeliverFailure(ctx context.Context, failure swarm.FailureReport) error {
	text := fmt.Sprintf("*Economic summary run failed* (run `%s`, state `%s`)\nError: %v",
		failure.RunID, failure.State, failure.Err)
	if len(failure.FailedWorkers) > 0 {
		text += "\nFailed workers: " + strings.Join(failure.FailedWorkers, ", ")
	}
	return n.post(ctx, text)
}

func (n *SlackNotifier) post(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("delivery: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery: slack webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("delivery: slack webhook: status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	n.logger.Debug("delivered to slack", zap.Int("chars", len(text)))
	return nil
}

// Fanout delivers to several notifiers, collecting the first error but
// attempting all of them.
type Fanout []swarm.Notifier

var _ swarm.Notifier = (Fanout)(nil)

func (f Fanout) Deliver(ctx context.Context, report swarm.Report) error {
	var firstErr error
	for _, n := range f {
		if err := n.Deliver(ctx, report); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f Fanout) DeliverFailure(ctx context.Context, failure swarm.FailureReport) error {
	var firstErr error
	for _, n := range f {
		if err := n.DeliverFailure(ctx, failure); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
