package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/redact"
	"github.com/aretw0/sform/pkg/runner"
)

// FormURI is the resource holding the whole form.
const FormURI = "sform://form"

// Form is the part of a form exposed over MCP. *sform.Form[string, string] satisfies it.
type Form interface {
	ApplyEdit(id string, raw string) error
	Field(id string) domain.Binding[string, string]
	Fields() []domain.Binding[string, string]
	Has(id string) bool
	Snapshot() *domain.Snapshot[string, string]
}

// FieldView is the MCP shape of a field binding.
type FieldView struct {
	ID       string         `json:"id" jsonschema_description:"Field id"`
	Value    string         `json:"value" jsonschema_description:"Current settled value"`
	Props    map[string]any `json:"props,omitempty" jsonschema_description:"Presentation props"`
	Error    string         `json:"error,omitempty" jsonschema_description:"Message shown for the field, empty when clear"`
	Severity string         `json:"severity,omitempty" jsonschema_description:"error, warning or info"`
}

// FormResult describes the whole form.
type FormResult struct {
	Form    string      `json:"form,omitempty"`
	Version int         `json:"version" jsonschema_description:"Number of settled edits"`
	Valid   bool        `json:"valid" jsonschema_description:"True when no field shows an error"`
	Fields  []FieldView `json:"fields"`
}

// EditResult is returned by apply_edit.
type EditResult struct {
	Field   FieldView `json:"field"`
	Valid   bool      `json:"valid"`
	Changed []string  `json:"changed,omitempty" jsonschema_description:"Fields whose value or message changed"`
}

// ValuesResult is returned by get_values.
type ValuesResult struct {
	Values map[string]string `json:"values"`
}

// FieldArgs are the arguments of bind_field.
type FieldArgs struct {
	Field string `json:"field"`
}

// EditArgs are the arguments of apply_edit.
type EditArgs struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Server wraps a form and exposes it as an MCP Server.
type Server struct {
	mu        sync.Mutex
	form      Form
	name      string
	logger    *slog.Logger
	redactor  *redact.Redactor
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithName sets the form name reported by list_fields.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithRedactor masks sensitive values in every tool result and resource read.
func WithRedactor(r *redact.Redactor) Option {
	return func(s *Server) {
		s.redactor = r
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(form Form, opts ...Option) *Server {
	s := &Server{
		form:      form,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("sform-mcp", strings.TrimSpace(sform.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for tests and custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx ends.
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_fields",
		mcp.WithDescription("List every field of the form with its value and message."),
		mcp.WithOutputSchema[FormResult](),
	), mcp.NewStructuredToolHandler(s.handleListFields))

	s.mcpServer.AddTool(mcp.NewTool("bind_field",
		mcp.WithDescription("Get the current binding of one field."),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field id")),
		mcp.WithOutputSchema[FieldView](),
	), mcp.NewStructuredToolHandler(s.handleBindField))

	s.mcpServer.AddTool(mcp.NewTool("apply_edit",
		mcp.WithDescription("Apply a raw edit to a field. Constraints may rewrite the value; the settled field is returned."),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field id")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Raw value as typed by the user")),
		mcp.WithOutputSchema[EditResult](),
	), mcp.NewStructuredToolHandler(s.handleApplyEdit))

	s.mcpServer.AddTool(mcp.NewTool("get_values",
		mcp.WithDescription("Get the current value of every field."),
		mcp.WithOutputSchema[ValuesResult](),
	), mcp.NewStructuredToolHandler(s.handleGetValues))
}

func (s *Server) handleListFields(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (FormResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formResult(), nil
}

func (s *Server) handleBindField(ctx context.Context, request mcp.CallToolRequest, args FieldArgs) (FieldView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.form.Has(args.Field) {
		return FieldView{}, fmt.Errorf("%w: %s", domain.ErrUnknownField, args.Field)
	}
	return s.view(s.form.Field(args.Field)), nil
}

func (s *Server) handleApplyEdit(ctx context.Context, request mcp.CallToolRequest, args EditArgs) (EditResult, error) {
	clean, err := runner.SanitizeInput(args.Value)
	if err != nil {
		s.logger.Warn("MCP apply_edit: Input rejected", "err", err, "size", len(args.Value))
		return EditResult{}, fmt.Errorf("input rejected: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.form.Has(args.Field) {
		return EditResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownField, args.Field)
	}

	before := s.form.Snapshot()
	if err := s.form.ApplyEdit(args.Field, clean); err != nil {
		return EditResult{}, fmt.Errorf("edit failed: %w", err)
	}
	after := s.form.Snapshot()

	res := EditResult{
		Field: s.view(s.form.Field(args.Field)),
		Valid: after.Valid(),
	}
	if diff := domain.Diff(before, after); diff != nil {
		res.Changed = diff.Changed()
	}
	s.logger.Debug("MCP apply_edit", "field", args.Field, "changed", res.Changed)
	return res, nil
}

func (s *Server) handleGetValues(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValuesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	props := func(id string) map[string]any { return s.form.Field(id).Props }
	return ValuesResult{Values: s.redactor.Values(s.form.Snapshot().Values(), props)}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FormURI, "Current form state",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		res := s.formResult()
		s.mu.Unlock()

		jsonBytes, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FormURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// formResult must be called with s.mu held.
func (s *Server) formResult() FormResult {
	snap := s.form.Snapshot()
	bindings := s.form.Fields()
	fields := make([]FieldView, 0, len(bindings))
	for _, b := range bindings {
		fields = append(fields, s.view(b))
	}
	return FormResult{
		Form:    s.name,
		Version: snap.Version(),
		Valid:   snap.Valid(),
		Fields:  fields,
	}
}

func (s *Server) view(b domain.Binding[string, string]) FieldView {
	b = s.redactor.Binding(b)
	return FieldView{
		ID:       b.ID,
		Value:    b.Value,
		Props:    b.Props,
		Error:    b.Error,
		Severity: string(b.Severity),
	}
}
