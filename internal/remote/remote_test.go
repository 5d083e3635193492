package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/econswarm/internal/swarm"
)

func echoWorker(name string) swarm.Worker {
	return swarm.WorkerFunc{WorkerName: name, Fn: func(ctx context.Context, task, contextText string) (string, error) {
		return "analyzed: " + task, nil
	}}
}

// serveWorker wires a Server's handler into an httptest server.
func serveWorker(t *testing.T, w swarm.Worker) *httptest.Server {
	t.Helper()
	srv := NewServer(w, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /", srv.handleJSONRPC)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClientServer_RoundTrip(t *testing.T) {
	ts := serveWorker(t, echoWorker("equities"))

	client := NewClient(ts.URL, "equities")
	out, err := client.Invoke(context.Background(), "assess the market", "prior context")

	require.NoError(t, err)
	assert.Equal(t, "analyzed: assess the market", out)
	assert.Equal(t, "equities", client.Name())
}

func TestDial_LearnsWorkerName(t *testing.T) {
	ts := serveWorker(t, echoWorker("commodities"))

	client, err := Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "commodities", client.Name())
}

func TestClient_Invoke_WorkerFailure(t *testing.T) {
	boom := errors.New("no data available")
	failing := swarm.WorkerFunc{WorkerName: "macro", Fn: func(ctx context.Context, task, contextText string) (string, error) {
		return "", boom
	}}
	ts := serveWorker(t, failing)

	client := NewClient(ts.URL, "macro")
	_, err := client.Invoke(context.Background(), "task", "")

	require.Error(t, err)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, ErrCodeWorkerFailed, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "no data available")
}

func TestClient_Invoke_TimeoutMapsToDeadlineExceeded(t *testing.T) {
	timingOut := swarm.WorkerFunc{WorkerName: "macro", Fn: func(ctx context.Context, task, contextText string) (string, error) {
		return "", context.DeadlineExceeded
	}}
	ts := serveWorker(t, timingOut)

	client := NewClient(ts.URL, "macro")
	_, err := client.Invoke(context.Background(), "task", "")

	require.Error(t, err)
	assert.True(t, swarm.IsTimeout(err), "remote timeouts classify like local ones")
}

func TestServer_InvokeRequiresTask(t *testing.T) {
	ts := serveWorker(t, echoWorker("macro"))

	client := NewClient(ts.URL, "macro")
	_, err := client.Invoke(context.Background(), "", "")

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, ErrCodeInvalidParams, rpcErr.Code)
}

func TestServer_MethodNotFound(t *testing.T) {
	ts := serveWorker(t, echoWorker("macro"))

	client := NewClient(ts.URL, "macro")
	err := client.call(context.Background(), "worker/cancel", struct{}{}, nil)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, ErrCodeMethodNotFound, rpcErr.Code)
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(echoWorker("political"), nil)
	require.NoError(t, srv.Start(context.Background(), "127.0.0.1:0"))
	defer srv.Stop(context.Background())

	require.NotEmpty(t, srv.Addr())

	client, err := Dial(context.Background(), "http://"+srv.Addr())
	require.NoError(t, err)
	assert.Equal(t, "political", client.Name())

	out, err := client.Invoke(context.Background(), "scan headlines", "")
	require.NoError(t, err)
	assert.Equal(t, "analyzed: scan headlines", out)
}

func TestClient_RequestIDsIncrease(t *testing.T) {
	ts := serveWorker(t, echoWorker("macro"))
	client := NewClient(ts.URL, "macro")

	first := client.nextID()
	second := client.nextID()
	assert.Greater(t, second, first)
}
