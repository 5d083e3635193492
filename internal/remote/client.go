package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dusk-indust/econswarm/internal/swarm"
)

// Compile-time interface check.
var _ swarm.Worker = (*Client)(nil)

// Client is a swarm.Worker backed by a remote worker server. Invoke
// performs a worker/invoke JSON-RPC call against the endpoint.
type Client struct {
	endpoint  string
	name      string
	http      *http.Client
	requestID atomic.Int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for a remote worker whose name is already
// known.
func NewClient(endpoint, name string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		name:     name,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial creates a client and asks the remote worker for its name via
// worker/describe.
func Dial(ctx context.Context, endpoint string, opts ...ClientOption) (*Client, error) {
	c := NewClient(endpoint, "", opts...)

	var desc DescribeResult
	if err := c.call(ctx, MethodDescribe, struct{}{}, &desc); err != nil {
		return nil, err
	}
	if desc.Name == "" {
		return nil, fmt.Errorf("remote: %s returned an empty worker name", endpoint)
	}
	c.name = desc.Name
	return c, nil
}

func (c *Client) Name() string {
	return c.name
}

// Invoke runs the remote worker. A worker-timeout error from the server
// is surfaced as context.DeadlineExceeded so the caller classifies it
// the same way as a local timeout.
func (c *Client) Invoke(ctx context.Context, task, contextText string) (string, error) {
	var result InvokeResult
	err := c.call(ctx, MethodInvoke, InvokeParams{Task: task, Context: contextText}, &result)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == ErrCodeWorkerTimeout {
			return "", fmt.Errorf("remote: %s: %w", c.name, context.DeadlineExceeded)
		}
		return "", err
	}
	return result.Result, nil
}

// nextID returns a monotonically increasing request ID for JSON-RPC calls.
func (c *Client) nextID() int64 {
	return c.requestID.Add(1)
}

// call performs a JSON-RPC 2.0 call over HTTP POST.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("remote: marshal params: %w", err)
	}

	rpcReq := JSONRPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      c.nextID(),
		Method:  method,
		Params:  paramsJSON,
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return fmt.Errorf("remote: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote: %s: HTTP %d: %s", method, resp.StatusCode, string(respBody))
	}

	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Method:  method,
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
			Data:    rpcResp.Error.Data,
		}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("remote: decode result: %w", err)
		}
	}

	return nil
}

// RPCError represents a JSON-RPC error returned by a remote worker.
type RPCError struct {
	Method  string
	Code    int
	Message string
	Data    json.RawMessage
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("remote: %s: rpc error %d: %s (data: %s)", e.Method, e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("remote: %s: rpc error %d: %s", e.Method, e.Code, e.Message)
}
