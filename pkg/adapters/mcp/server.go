// Package mcp exposes a workstate model to AI agents through the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/grigi/workstate"
	render "github.com/grigi/workstate/internal/presentation/graph"
	"github.com/grigi/workstate/internal/presentation/tui"
	"github.com/grigi/workstate/pkg/domain"
)

// GraphURI is the resource holding the current graph as JSON.
const GraphURI = "workstate://graph"

// Source loads the served model. *workstate.Workstate implements it.
type Source interface {
	Load(ctx context.Context) (*workstate.Model, error)
}

// Validation is the structured result of validate_model.
type Validation struct {
	Model   string      `json:"model" jsonschema_description:"Model name"`
	Valid   bool        `json:"valid" jsonschema_description:"Whether the model passed every check"`
	Scopes  []string    `json:"scopes" jsonschema_description:"Member scopes in engine order"`
	Code    domain.Code `json:"code,omitempty" jsonschema_description:"Error code when broken"`
	Message string      `json:"message,omitempty" jsonschema_description:"Error message when broken"`
	States  []string    `json:"states,omitempty" jsonschema_description:"Unreachable states, if any"`
}

// Server wraps a model source and exposes it as an MCP Server.
type Server struct {
	source    Source
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(source Source) *Server {
	s := &Server{
		source:    source,
		mcpServer: server.NewMCPServer("workstate-mcp", workstate.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over Server-Sent Events on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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
	s.mcpServer.AddTool(mcp.NewTool("validate_model",
		mcp.WithDescription("Load the model and check that every transition can fire, no event is empty and every state is reachable."),
		mcp.WithOutputSchema[Validation](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Export the model graph. Broken models are drawn as drafts with unreachable states highlighted."),
		mcp.WithString("format",
			mcp.Description("Output format: json (default), dot or mermaid"),
			mcp.Enum(string(render.FormatJSON), string(render.FormatDOT), string(render.FormatMermaid)),
		),
	), s.handleGraph)

	s.mcpServer.AddTool(mcp.NewTool("list_scopes",
		mcp.WithDescription("List member scopes with their initial state and states in traversal order."),
	), s.handleListScopes)

	s.mcpServer.AddTool(mcp.NewTool("describe_model",
		mcp.WithDescription("Describe every scope of the model as markdown: states, transitions, events and triggers."),
	), s.handleDescribe)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (Validation, error) {
	m, err := s.source.Load(ctx)
	if err != nil {
		return Validation{}, fmt.Errorf("load failed: %w", err)
	}

	v := Validation{Model: m.Name, Valid: m.Valid(), Scopes: m.ScopeNames()}
	if m.Err != nil {
		v.Message = m.Err.Error()
		var bse *domain.BrokenStateModelError
		if errors.As(m.Err, &bse) {
			v.Code = bse.Code
			v.States = bse.States
		}
	}
	return v, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := render.ParseFormat(request.GetString("format", string(render.FormatJSON)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if format.IsImage() {
		return mcp.NewToolResultError("image formats are not available over MCP"), nil
	}

	m, err := s.source.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	var overlay *render.Overlay
	if !m.Valid() {
		overlay = &render.Overlay{Unreachable: m.Unreachable()}
	}
	out, err := render.Render(ctx, m.DraftGraph(), format, overlay)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

type scopeInfo struct {
	Name    string   `json:"name"`
	Initial string   `json:"initial,omitempty"`
	States  []string `json:"states"`
}

func (s *Server) handleListScopes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := s.source.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	ordered := m.OrderedStates()
	out := make([]scopeInfo, 0, len(m.Scopes))
	for _, sc := range m.Scopes {
		out = append(out, scopeInfo{Name: sc.Name(), Initial: sc.Initial(), States: ordered[sc.Name()]})
	}
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := s.source.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return mcp.NewToolResultText(tui.Describe(domain.Pretty(m.Name), m.Scopes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Model Graph",
		mcp.WithMIMEType("application/json"),
	), s.handleGraphResource)
}

func (s *Server) handleGraphResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	m, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	jsonBytes, err := json.Marshal(m.DraftGraph())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
