// Package toolserver exposes napkinwire's utilities to a host agent over a
// tool-invocation protocol: JSON-RPC 2.0, one request per line, on stdio.
package toolserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
)

const protocolVersion = "2.0"

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Tool is one callable utility. Handlers return their result value or an
// error; errors are folded into a success=false result envelope, never into a
// transport-level failure.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
	Handler     func(ctx context.Context, args json.RawMessage) (any, error) `json:"-"`
}

// Server dispatches protocol requests to registered tools.
type Server struct {
	name    string
	version string

	mu    sync.RWMutex
	tools map[string]Tool
}

func NewServer(name, version string) *Server {
	return &Server{
		name:    name,
		version: version,
		tools:   map[string]Tool{},
	}
}

// Register adds a tool; later registrations replace earlier ones by name.
func (s *Server) Register(tool Tool) {
	s.mu.Lock()
	s.tools[tool.Name] = tool
	s.mu.Unlock()
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *responseError  `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Run reads line-delimited requests from in until EOF or ctx cancellation,
// writing one response line per request. Requests are handled sequentially;
// stdio carries at most one conversation.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 256*1024)
	scanner.Buffer(buf, 10*1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp := s.handleLine(ctx, line)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

func (s *Server) handleLine(ctx context.Context, line string) response {
	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return errorResponse(nil, codeParseError, fmt.Sprintf("parse request: %v", err))
	}
	if req.JSONRPC != protocolVersion {
		return errorResponse(req.ID, codeInvalidRequest, fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC))
	}

	switch req.Method {
	case "initialize":
		return response{JSONRPC: protocolVersion, ID: req.ID, Result: map[string]any{
			"server_name":    s.name,
			"server_version": s.version,
			"capabilities":   map[string]any{"tools": true},
		}}
	case "tools/list":
		return response{JSONRPC: protocolVersion, ID: req.ID, Result: map[string]any{
			"tools": s.listTools(),
		}}
	case "tools/call":
		return s.handleCall(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method))
	}
}

func (s *Server) handleCall(ctx context.Context, req request) response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("decode call params: %v", err))
	}
	if params.Name == "" {
		return errorResponse(req.ID, codeInvalidParams, "missing tool name")
	}

	s.mu.RLock()
	tool, ok := s.tools[params.Name]
	s.mu.RUnlock()
	if !ok {
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("unknown tool %q", params.Name))
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	result, err := tool.Handler(ctx, args)
	if err != nil {
		log.Printf("toolserver level=warn event=tool_failed tool=%s error=%v", params.Name, err)
		return response{JSONRPC: protocolVersion, ID: req.ID, Result: map[string]any{
			"success": false,
			"error":   err.Error(),
		}}
	}

	log.Printf("toolserver level=info event=tool_called tool=%s", params.Name)
	return response{JSONRPC: protocolVersion, ID: req.ID, Result: map[string]any{
		"success": true,
		"data":    result,
	}}
}

func (s *Server) listTools() []Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

func errorResponse(id json.RawMessage, code int, message string) response {
	return response{
		JSONRPC: protocolVersion,
		ID:      id,
		Error:   &responseError{Code: code, Message: message},
	}
}
