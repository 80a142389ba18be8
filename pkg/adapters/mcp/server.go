package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/contrib"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/schema"
	"github.com/aretw0/contrib/pkg/when"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const manifestURI = "contrib://manifest"

// EvalResponse is the structured result of the evaluate_when tool.
type EvalResponse struct {
	Result     bool     `json:"result" jsonschema_description:"Whether the clause holds for the context values"`
	Normalized string   `json:"normalized" jsonschema_description:"The clause as parsed"`
	Atoms      []string `json:"atoms" jsonschema_description:"Distinct predicate tests read by the clause"`
}

// Server exposes a host to MCP clients: agents can list and run commands,
// read and write context keys and evaluate when-clauses.
type Server struct {
	host      ports.Host
	store     ports.ContextStore
	manifest  func() *domain.Manifest
	schema    schema.Schema
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithManifest exposes the manifest as a resource and through list_commands.
func WithManifest(fn func() *domain.Manifest) Option {
	return func(s *Server) {
		s.manifest = fn
	}
}

// WithSchema rejects context values that do not match their declared type.
func WithSchema(sc schema.Schema) Option {
	return func(s *Server) {
		s.schema = sc
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(host ports.Host, store ports.ContextStore, opts ...Option) *Server {
	s := &Server{
		host:      host,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("contrib-mcp", strings.TrimSpace(contrib.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_commands
	s.mcpServer.AddTool(mcp.NewTool("list_commands",
		mcp.WithDescription("List the commands contributed by the extension."),
	), s.handleListCommands)

	// TOOL: execute_command
	s.mcpServer.AddTool(mcp.NewTool("execute_command",
		mcp.WithDescription("Execute a command on the host and return its result as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Command ID")),
		mcp.WithString("args", mcp.Description("JSON array of arguments (optional)")),
	), s.handleExecuteCommand)

	// TOOL: get_context
	s.mcpServer.AddTool(mcp.NewTool("get_context",
		mcp.WithDescription("Get the current context key values as a JSON object."),
	), s.handleGetContext)

	// TOOL: set_context
	s.mcpServer.AddTool(mcp.NewTool("set_context",
		mcp.WithDescription("Set a context key on the host. Omit value to clear the key."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Context key")),
		mcp.WithString("value", mcp.Description("JSON value (optional)")),
	), s.handleSetContext)

	// TOOL: evaluate_when
	s.mcpServer.AddTool(mcp.NewTool("evaluate_when",
		mcp.WithDescription("Evaluate a when-clause against the current context or the given values."),
		mcp.WithString("clause", mcp.Required(), mcp.Description("The when-clause, e.g. editorLangId == go && !editorReadonly")),
		mcp.WithString("values", mcp.Description("JSON object of context values (optional)")),
		mcp.WithOutputSchema[EvalResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluateWhen))
}

func (s *Server) handleListCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commands := []domain.CommandContribution{}
	if s.manifest != nil {
		commands = append(commands, s.manifest().Contributes.Commands...)
	}
	jsonBytes, _ := json.Marshal(commands)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, _ := args["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	if id == ports.SetContextCommand {
		return mcp.NewToolResultError("use set_context to set context keys"), nil
	}

	var callArgs []any
	if raw, ok := args["args"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &callArgs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("args must be a JSON array: %v", err)), nil
		}
	}

	out, err := s.host.ExecuteCommand(ctx, id, callArgs...)
	if err != nil {
		if errors.Is(err, domain.ErrCommandNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.logger.Error("MCP ExecuteCommand failed", "command", id, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("command failed: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("result is not JSON serializable: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values, err := s.store.All(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context read failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(values)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	key, _ := args["key"].(string)
	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}

	var value any
	if raw, ok := args["value"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("value must be JSON: %v", err)), nil
		}
	}
	if err := s.schema.ValidateValue(key, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := s.host.ExecuteCommand(ctx, ports.SetContextCommand, key, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("setContext failed: %v", err)), nil
	}
	if value == nil {
		if err := s.store.Delete(ctx, key); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("context delete failed: %v", err)), nil
		}
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) handleEvaluateWhen(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvalResponse, error) {
	clause, _ := args["clause"].(string)
	dnf, err := when.Parse(clause)
	if err != nil {
		return EvalResponse{}, err
	}

	var values map[string]any
	if raw, ok := args["values"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return EvalResponse{}, fmt.Errorf("values must be a JSON object: %w", err)
		}
	} else {
		values, err = s.store.All(ctx)
		if err != nil {
			return EvalResponse{}, fmt.Errorf("context read failed: %w", err)
		}
	}

	result, err := dnf.EvalValues(values)
	if err != nil {
		return EvalResponse{}, err
	}
	atoms := dnf.Atoms()
	if atoms == nil {
		atoms = []string{}
	}
	return EvalResponse{Result: result, Normalized: dnf.String(), Atoms: atoms}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: contrib://manifest
	s.mcpServer.AddResource(mcp.NewResource(manifestURI, "Extension Manifest",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if s.manifest == nil {
			return nil, fmt.Errorf("no manifest configured")
		}
		jsonBytes, err := json.Marshal(s.manifest())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal manifest: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      manifestURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
