package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CacheURI is the resource listing cached address hashes.
const CacheURI = "txgraph://cache/address"

// TraceArgs are the arguments of the trace_address tool.
type TraceArgs struct {
	Address string `json:"address"`
	Format  string `json:"format,omitempty"`
}

// TraceResponse is the structured result of the trace_address tool.
type TraceResponse struct {
	Seed     string `json:"seed" jsonschema_description:"The traced address"`
	Empty    bool   `json:"empty" jsonschema_description:"True when the seed had no transactions"`
	Edges    int    `json:"edges" jsonschema_description:"Number of edges in the document"`
	Format   string `json:"format" jsonschema_description:"Rendering format (dot or mermaid)"`
	Document string `json:"document" jsonschema_description:"The rendered graph"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Expand(ctx context.Context, seed string) (*edges.Document, error)
	Store() ports.RecordStore
}

// Server wraps the expansion engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("txgraph-mcp", strings.TrimSpace(txgraph.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	traceTool := mcp.NewTool("trace_address",
		mcp.WithDescription("Trace the payer/recipient graph around a Bitcoin address."),
		mcp.WithString("address", mcp.Required(), mcp.Description("The seed address")),
		mcp.WithString("format", mcp.Description("dot (default) or mermaid")),
		mcp.WithOutputSchema[TraceResponse](),
	)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTrace))
}

func (s *Server) handleTrace(ctx context.Context, _ mcp.CallToolRequest, args TraceArgs) (TraceResponse, error) {
	seed := domain.NormalizeAddress(args.Address)
	if err := domain.ValidateAddress(seed); err != nil {
		return TraceResponse{}, err
	}
	format := args.Format
	if format == "" {
		format = txgraph.FormatDOT
	}

	doc, err := s.engine.Expand(ctx, seed)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			s.logger.Warn("MCP Trace: quota exhausted", "seed", seed)
		}
		return TraceResponse{}, fmt.Errorf("trace failed: %w", err)
	}
	text, err := txgraph.Render(doc, format)
	if err != nil {
		return TraceResponse{}, err
	}

	return TraceResponse{
		Seed:     doc.Seed,
		Empty:    doc.Empty,
		Edges:    len(doc.Edges),
		Format:   format,
		Document: text,
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CacheURI, "Cached Addresses",
		mcp.WithMIMEType("application/json"),
	), s.readCache)
}

func (s *Server) readCache(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	hashes, err := s.engine.Store().List(ctx, domain.KindAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	if hashes == nil {
		hashes = []string{}
	}
	sort.Strings(hashes)
	jsonBytes, err := json.Marshal(hashes)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CacheURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
