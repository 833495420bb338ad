package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	clog "github.com/charmbracelet/log"

	"github.com/ironsheep/photo-tools-mcp/internal/imaging"
	"github.com/ironsheep/photo-tools-mcp/internal/logging"
	"github.com/ironsheep/photo-tools-mcp/internal/session"
)

const (
	// ProtocolVersion is the MCP revision the server speaks.
	ProtocolVersion = "2024-11-05"

	maxRequestBytes = 64 << 20
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server handles MCP protocol communication.
type Server struct {
	engine  *imaging.Engine
	cache   *imaging.ImageCache
	drafts  session.DraftStore
	logger  *clog.Logger
	version string

	workers        int
	dominantColors int

	mu       sync.Mutex
	sessions map[string]*openSession
}

// MCPRequest represents an incoming JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Sessions inherit it.
func WithLogger(l *clog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDraftStore enables draft_id on session begin and the saved_draft outcome.
func WithDraftStore(d session.DraftStore) Option {
	return func(s *Server) { s.drafts = d }
}

// WithWorkers bounds concurrent final renders per session.
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDominantColors sets the default palette size of the color tools.
func WithDominantColors(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.dominantColors = n
		}
	}
}

// WithVersion sets the version reported on initialize.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a server rendering with engine and loading through cache.
func New(engine *imaging.Engine, cache *imaging.ImageCache, opts ...Option) *Server {
	s := &Server{
		engine:         engine,
		cache:          cache,
		logger:         logging.Discard(),
		version:        "dev",
		workers:        session.DefaultWorkers,
		dominantColors: imaging.DefaultDominantColors,
		sessions:       make(map[string]*openSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads newline-delimited requests from in and writes responses to out
// until in is exhausted or ctx is cancelled. Open sessions are closed on
// return.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	defer s.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		var resp *MCPResponse
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "err", err)
			resp = errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(ctx, &req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// Close ends every open session without touching the draft store.
func (s *Server) Close() {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[string]*openSession)
	s.mu.Unlock()

	for id, entry := range open {
		entry.sess.Close()
		s.logger.Debug("session closed", "session", id)
	}
}

// handleRequest routes requests to the appropriate handlers.
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), nil)
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "photo-tools-mcp",
				"version": s.version,
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"tools": GetToolDefinitions(),
		},
	}
}

func errorResponse(id any, code int, message string, data any) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message, Data: data},
	}
}
