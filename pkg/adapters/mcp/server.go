package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/internal/logging"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// TraceURI is the resource holding the trace rendered with default options.
const TraceURI = "itf://trace"

// Modes accepted by render_trace besides the two view modes.
const modeBoth = "both"

// Engine defines what the MCP server needs from the renderer.
type Engine interface {
	Render(t *domain.Trace, opts domain.DisplayOptions) string
	RenderModes(ctx context.Context, t *domain.Trace, opts domain.DisplayOptions) (itfview.Views, error)
}

// RenderArgs are the arguments of render_trace.
type RenderArgs struct {
	Variables   []string `json:"variables,omitempty"`
	ShowInitial bool     `json:"show_initial,omitempty"`
	ViewMode    string   `json:"view_mode,omitempty"`
}

// RenderResponse is the structured result of render_trace. Markup is set for
// a single mode, Single and Chained for both.
type RenderResponse struct {
	Markup  string `json:"markup,omitempty" jsonschema_description:"Rendered trace for the requested view mode"`
	Single  string `json:"single,omitempty" jsonschema_description:"Single-table rendering when both modes are requested"`
	Chained string `json:"chained,omitempty" jsonschema_description:"Chained-tables rendering when both modes are requested"`
	States  int    `json:"states" jsonschema_description:"Number of states shown"`
}

// VariablesResponse is the structured result of list_variables.
type VariablesResponse struct {
	Variables   []string `json:"variables" jsonschema_description:"Declared variables in display order"`
	States      int      `json:"states" jsonschema_description:"Number of states in the trace"`
	Description string   `json:"description,omitempty" jsonschema_description:"Trace description from its header"`
}

// Server exposes a trace source as an MCP server.
type Server struct {
	engine    Engine
	source    ports.TraceSource
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, source ports.TraceSource, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		source:    source,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("itfview-mcp", strings.TrimSpace(itfview.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. to mount it elsewhere.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: render_trace
	renderTool := mcp.NewTool("render_trace",
		mcp.WithDescription("Render the trace as HTML tables highlighting what changed between consecutive states."),
		mcp.WithArray("variables", mcp.Description("Variables to show (optional, all by default)"), mcp.WithStringItems()),
		mcp.WithBoolean("show_initial", mcp.Description("Include the initial state (optional)")),
		mcp.WithString("view_mode", mcp.Description("single, chained or both (optional, chained by default)")),
		mcp.WithOutputSchema[RenderResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRenderTrace))

	// TOOL: list_variables
	listTool := mcp.NewTool("list_variables",
		mcp.WithDescription("List the variables declared by the trace."),
		mcp.WithOutputSchema[VariablesResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListVariables))
}

func (s *Server) handleRenderTrace(ctx context.Context, request mcp.CallToolRequest, args RenderArgs) (RenderResponse, error) {
	t, err := s.source.Load(ctx)
	if err != nil {
		return RenderResponse{}, fmt.Errorf("failed to load trace: %w", err)
	}

	opts := domain.DisplayOptions{
		SelectedVariables: args.Variables,
		ShowInitialState:  args.ShowInitial,
		ViewMode:          domain.ChainedTables,
	}
	resp := RenderResponse{States: shownStates(t, args.ShowInitial)}

	if strings.EqualFold(strings.TrimSpace(args.ViewMode), modeBoth) {
		views, err := s.engine.RenderModes(ctx, t, opts)
		if err != nil {
			return RenderResponse{}, fmt.Errorf("render failed: %w", err)
		}
		resp.Single, resp.Chained = views.Single, views.Chained
		return resp, nil
	}

	if args.ViewMode != "" {
		mode, err := domain.ParseViewMode(args.ViewMode)
		if err != nil {
			return RenderResponse{}, err
		}
		opts.ViewMode = mode
	}
	resp.Markup = s.engine.Render(t, opts)
	return resp, nil
}

func (s *Server) handleListVariables(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (VariablesResponse, error) {
	t, err := s.source.Load(ctx)
	if err != nil {
		return VariablesResponse{}, fmt.Errorf("failed to load trace: %w", err)
	}
	vars := slices.Clone(t.Vars)
	slices.Sort(vars)
	return VariablesResponse{
		Variables:   vars,
		States:      len(t.States),
		Description: t.Meta.Description,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: itf://trace
	s.mcpServer.AddResource(mcp.NewResource(TraceURI, "Rendered Trace",
		mcp.WithResourceDescription("The trace rendered as chained tables with default options"),
		mcp.WithMIMEType("text/html"),
	), s.readTrace)
}

func (s *Server) readTrace(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	t, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trace: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TraceURI,
			MIMEType: "text/html",
			Text:     s.engine.Render(t, domain.DefaultDisplayOptions()),
		},
	}, nil
}

func shownStates(t *domain.Trace, showInitial bool) int {
	if n := len(t.States); n > 0 && !showInitial {
		return n - 1
	}
	return len(t.States)
}
