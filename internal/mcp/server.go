package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/filter"
)

// Server implements an MCP server over stdio
type Server struct {
	db          *database.DB
	categorizer *categorizer.Categorizer
	filter      *filter.Filter
	logger      *slog.Logger
	version     string
	handlers    map[string]ToolHandler
}

// ToolHandler is a function that handles a tool call
type ToolHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// JSON-RPC 2.0 types
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// protocolVersion is the MCP revision the server speaks
const protocolVersion = "2024-11-05"

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	Capabilities    struct {
		Tools     struct{} `json:"tools"`
		Resources struct{} `json:"resources"`
	} `json:"capabilities"`
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type callToolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// New creates a new MCP server. db may be nil, in which case the run
// history tools report that persistence is disabled.
func New(db *database.DB, c *categorizer.Categorizer, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		db:          db,
		categorizer: c,
		logger:      logger,
		version:     version,
		handlers:    make(map[string]ToolHandler),
	}
	s.registerHandlers()
	return s
}

// SetFilter drops results from blocked sources before they are scored
func (s *Server) SetFilter(f *filter.Filter) {
	s.filter = f
}

// Start runs the MCP server on stdio
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted or ctx is cancelled
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	enc := json.NewEncoder(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return fmt.Errorf("read error: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if resp := s.handleMessage(ctx, line); resp != nil {
			if err := enc.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "error", err)
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// methodHandler serves one JSON-RPC method
type methodHandler func(ctx context.Context, params json.RawMessage) (interface{}, *rpcError)

func (s *Server) methods() map[string]methodHandler {
	return map[string]methodHandler{
		"initialize":     s.handleInitialize,
		"ping":           s.handlePing,
		"tools/list":     s.handleToolsList,
		"tools/call":     s.handleToolsCall,
		"resources/list": s.handleResourcesList,
		"resources/read": s.handleResourcesRead,
	}
}

func (s *Server) handleMessage(ctx context.Context, msg string) *jsonRPCResponse {
	var req jsonRPCRequest
	if err := json.Unmarshal([]byte(msg), &req); err != nil {
		return failure(nil, codeParseError, "Parse error")
	}

	// Notifications never get a response
	if req.Method == "initialized" || strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}

	handler, ok := s.methods()[req.Method]
	if !ok {
		return failure(req.ID, codeMethodNotFound, "Method not found")
	}
	result, rpcErr := handler(ctx, req.Params)
	if rpcErr != nil {
		return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return &jsonRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func failure(id interface{}, code int, message string) *jsonRPCResponse {
	return &jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	}
}

func (s *Server) handleInitialize(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	result := initializeResult{ProtocolVersion: protocolVersion}
	result.ServerInfo.Name = "searchlens"
	result.ServerInfo.Version = s.version
	return result, nil
}

func (s *Server) handlePing(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	return struct{}{}, nil
}

func (s *Server) handleToolsList(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	return toolsListResult{Tools: ToolDefinitions}, nil
}

// handleToolsCall runs a tool. Tool failures are reported in the result
// with isError set; only malformed calls are protocol errors.
func (s *Server) handleToolsCall(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	var call callToolParams
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	handler, ok := s.handlers[call.Name]
	if !ok {
		return nil, &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf("Unknown tool: %s", call.Name)}
	}

	start := time.Now()
	result, err := handler(ctx, call.Arguments)
	s.logger.Debug("tool call", "tool", call.Name, "duration", time.Since(start), "error", err)
	if err != nil {
		return textResult(err.Error(), true), nil
	}

	if str, ok := result.(string); ok {
		return textResult(str, false), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("failed to encode result: %v", err), true), nil
	}
	return textResult(string(data), false), nil
}

func textResult(text string, isError bool) callToolResult {
	return callToolResult{
		Content: []contentItem{{Type: "text", Text: text}},
		IsError: isError,
	}
}

func (s *Server) handleResourcesList(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	return resourcesListResult{Resources: ResourceDefinitions}, nil
}

func (s *Server) handleResourcesRead(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	var p readResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	text, err := s.handleReadResource(ctx, p.URI)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	return readResourceResult{
		Contents: []resourceContent{{URI: p.URI, MimeType: "text/plain", Text: text}},
	}, nil
}
