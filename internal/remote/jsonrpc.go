// Package remote exposes swarm workers over HTTP/JSON-RPC so domain
// analyses can run in separate processes. The server side wraps a
// swarm.Worker; the client side is itself a swarm.Worker, so the
// pipeline treats local and remote workers identically.
package remote

import "encoding/json"

// JSONRPCVersion is the JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// JSONRPCRequest is a JSON-RPC 2.0 request envelope.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse is a JSON-RPC 2.0 response envelope.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError is a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603

	// Worker-specific error codes.
	ErrCodeWorkerTimeout = -32001
	ErrCodeWorkerFailed  = -32002
)

// Worker method names.
const (
	MethodInvoke   = "worker/invoke"
	MethodDescribe = "worker/describe"
)

// InvokeParams carries one analysis request to a remote worker.
type InvokeParams struct {
	Task    string `json:"task"`
	Context string `json:"context,omitempty"`
}

// InvokeResult is the remote worker's analysis.
type InvokeResult struct {
	Worker string `json:"worker"`
	Result string `json:"result"`
}

// DescribeResult identifies a remote worker.
type DescribeResult struct {
	Name string `json:"name"`
}
