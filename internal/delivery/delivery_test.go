package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/econswarm/internal/swarm"
)

func sampleReport() swarm.Report {
	return swarm.Report{
		RunID:       "run-123",
		Task:        "summarize the economy",
		Content:     "Growth is slowing but employment holds.",
		GeneratedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriterNotifier_Deliver(t *testing.T) {
	var sb strings.Builder
	n := NewWriterNotifier(&sb)

	require.NoError(t, n.Deliver(context.Background(), sampleReport()))

	out := sb.String()
	assert.Contains(t, out, "# Economic Summary")
	assert.Contains(t, out, "run-123")
	assert.Contains(t, out, "Growth is slowing")
}

func TestWriterNotifier_DeliverFailure(t *testing.T) {
	var sb strings.Builder
	n := NewWriterNotifier(&sb)

	err := n.DeliverFailure(context.Background(), swarm.FailureReport{
		RunID:         "run-456",
		Task:          "summarize",
		State:         swarm.StateParallelAnalyze,
		Err:           errors.New("quorum not met"),
		FailedWorkers: []string{"political"},
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "# Run Failed")
	assert.Contains(t, out, "quorum not met")
	assert.Contains(t, out, "political")
}

func TestSlackNotifier_Deliver(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL)
	require.NoError(t, n.Deliver(context.Background(), sampleReport()))

	assert.Contains(t, payload["text"], "Economic Summary")
	assert.Contains(t, payload["text"], "run-123")
}

func TestSlackNotifier_TruncatesLongReports(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
	}))
	defer srv.Close()

	report := sampleReport()
	report.Content = strings.Repeat("x", maxSlackChars*2)

	n := NewSlackNotifier(srv.URL)
	require.NoError(t, n.Deliver(context.Background(), report))

	assert.Less(t, len(payload["text"]), maxSlackChars+200)
	assert.Contains(t, payload["text"], "truncated")
}

func TestSlackNotifier_SurfacesWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL)
	err := n.Deliver(context.Background(), sampleReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestFanout_DeliversToAllAndKeepsFirstError(t *testing.T) {
	var first, second strings.Builder

	boom := errors.New("webhook down")
	failing := notifierFunc{
		deliver: func(context.Context, swarm.Report) error { return boom },
	}

	f := Fanout{NewWriterNotifier(&first), failing, NewWriterNotifier(&second)}
	err := f.Deliver(context.Background(), sampleReport())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, first.String(), "run-123")
	assert.Contains(t, second.String(), "run-123", "later notifiers still run after a failure")
}

type notifierFunc struct {
	deliver        func(context.Context, swarm.Report) error
	deliverFailure func(context.Context, swarm.FailureReport) error
}

func (n notifierFunc) Deliver(ctx context.Context, r swarm.Report) error {
	if n.deliver == nil {
		return nil
	}
	return n.deliver(ctx, r)
}

func (n notifierFunc) DeliverFailure(ctx context.Context, f swarm.FailureReport) error {
	if n.deliverFailure == nil {
		return nil
	}
	return n.deliverFailure(ctx, f)
}
