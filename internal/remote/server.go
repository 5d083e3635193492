package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/dusk-indust/econswarm/internal/swarm"
)

// Server exposes a single swarm.Worker over HTTP/JSON-RPC.
type Server struct {
	worker swarm.Worker
	logger *zap.Logger
	http   *http.Server
	addr   string
}

// NewServer creates a worker server. logger may be nil.
func NewServer(worker swarm.Worker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		worker: worker,
		logger: logger,
	}
}

// Start binds the listener and begins serving in a background goroutine.
// It returns once the listener is bound, so Addr is immediately valid.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /", s.handleJSONRPC)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()

	s.http = &http.Server{
		Handler: mux,
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("worker server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("worker server listening",
		zap.String("worker", s.worker.Name()),
		zap.String("addr", s.addr))
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleJSONRPC dispatches JSON-RPC 2.0 requests to the wrapped worker.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONRPCError(w, nil, ErrCodeParse, "Parse error: "+err.Error())
		return
	}

	switch req.Method {
	case MethodInvoke:
		s.dispatchInvoke(r.Context(), w, &req)
	case MethodDescribe:
		writeJSONRPCResult(w, req.ID, DescribeResult{Name: s.worker.Name()})
	default:
		writeJSONRPCError(w, req.ID, ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// dispatchInvoke unmarshals params and runs the worker. Timeouts map to
// the worker-timeout error code so clients can classify them.
func (s *Server) dispatchInvoke(ctx context.Context, w http.ResponseWriter, req *JSONRPCRequest) {
	var params InvokeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
		return
	}
	if params.Task == "" {
		writeJSONRPCError(w, req.ID, ErrCodeInvalidParams, "Invalid params: task is required")
		return
	}

	result, err := s.worker.Invoke(ctx, params.Task, params.Context)
	if err != nil {
		s.logger.Warn("worker invocation failed",
			zap.String("worker", s.worker.Name()),
			zap.Error(err))
		code := ErrCodeWorkerFailed
		if swarm.IsTimeout(err) {
			code = ErrCodeWorkerTimeout
		}
		writeJSONRPCError(w, req.ID, code, err.Error())
		return
	}

	writeJSONRPCResult(w, req.ID, InvokeResult{
		Worker: s.worker.Name(),
		Result: result,
	})
}

// writeJSONRPCResult writes a successful JSON-RPC response.
func writeJSONRPCResult(w http.ResponseWriter, id any, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		writeJSONRPCError(w, id, ErrCodeInternal, "Failed to marshal result: "+err.Error())
		return
	}

	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  data,
	}

	json.NewEncoder(w).Encode(resp)
}

// writeJSONRPCError writes a JSON-RPC error response.
func writeJSONRPCError(w http.ResponseWriter, id any, code int, message string) {
	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}

	json.NewEncoder(w).Encode(resp)
}
