package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
	"github.com/ironsheep/pixelmap-mcp/internal/config"
	"github.com/ironsheep/pixelmap-mcp/internal/engine"
	"github.com/ironsheep/pixelmap-mcp/internal/imaging"
	"github.com/ironsheep/pixelmap-mcp/internal/palette"
)

// Server handles MCP protocol communication and holds the session state of
// one client: the palette, the current image and the last quantization.
type Server struct {
	cfg    config.Config
	images *imaging.ImageCache
	engine *engine.Coordinator

	palette    *palette.Palette
	unchecked  palette.GUIDSet
	suppressed palette.GUIDSet
	board      engine.CounterBoard

	space   colorspace.Space
	weights colorspace.Weights
	last    *engine.Result

	out *syncEncoder
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// syncEncoder serialises writes from the request loop and from cache
// builds reporting progress.
type syncEncoder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (e *syncEncoder) Encode(v interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(v)
}

// debugLogger forwards engine log lines to the standard logger when debug
// logging is enabled.
type debugLogger bool

func (d debugLogger) Printf(format string, v ...any) {
	if d {
		log.Output(2, fmt.Sprintf(format, v...))
	}
}

// New creates a server with no palette or image loaded.
func New(cfg config.Config) *Server {
	s := &Server{
		cfg:        cfg,
		images:     imaging.NewImageCache(),
		unchecked:  palette.NewGUIDSet(),
		suppressed: palette.NewGUIDSet(),
		space:      colorspace.RGB,
		weights:    colorspace.DefaultWeights(),
	}

	opts := cfg.EngineOptions()
	opts.Logger = debugLogger(cfg.Debug)
	opts.Progress = s.reportProgress
	s.engine = engine.NewCoordinator(opts)
	return s
}

// reportProgress logs progress in debug mode and forwards it to the client
// as an MCP log message.
func (s *Server) reportProgress(percent int, phase engine.Phase) {
	if s.cfg.Debug {
		log.Printf("%s: %d%%", phase, percent)
	}
	if s.out == nil {
		return
	}
	err := s.out.Encode(MCPNotification{
		JSONRPC: "2.0",
		Method:  "notifications/message",
		Params: map[string]interface{}{
			"level":  "info",
			"logger": "pixelmap",
			"data": map[string]interface{}{
				"phase":   phase,
				"percent": percent,
			},
		},
	})
	if err != nil {
		log.Printf("Failed to encode progress notification: %v", err)
	}
}

// LoadPalette replaces the session palette with the colour DB at path.
// Selections, suppressions and the last result are reset.
func (s *Server) LoadPalette(path string) (*palette.Palette, error) {
	p, err := palette.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.palette = p
	s.unchecked = palette.NewGUIDSet()
	s.suppressed = palette.NewGUIDSet()
	s.board.Reset()
	s.last = nil
	if s.cfg.Debug {
		log.Printf("Loaded palette %s with %d entries", path, p.Len())
	}
	return p, nil
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(context.Background(), os.Stdin, os.Stdout)
}

// Serve processes line-delimited JSON-RPC requests from r until EOF,
// writing responses to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := &syncEncoder{enc: json.NewEncoder(w)}
	s.out = encoder

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"logging": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "pixelmap-mcp",
				"version": "0.1.0",
			},
		},
	}
}
