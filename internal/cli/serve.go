package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/sform/internal/logging"
	httpAdapter "github.com/aretw0/sform/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/sform/pkg/adapters/mcp"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Path   string
	Port   string
	Debug  bool
	Mask   []string
	Output io.Writer
}

// serverLogger always logs: a server has no interactive UI to keep clean.
func serverLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

// Serve exposes the form over HTTP until SIGINT or SIGTERM.
func Serve(opts ServeOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := serverLogger(opts.Debug)
	redactor, err := createRedactor(opts.Mask)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	form, def, err := LoadForm(FormOptions{
		Path:   opts.Path,
		Debug:  opts.Debug,
		Logger: logger,
		Hooks:  []domain.LifecycleHooks{metrics.Hooks(), observability.LogHooks(logger)},
	})
	if err != nil {
		return err
	}

	srv := httpAdapter.NewServer(form,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithName(def.Config.Name),
		httpAdapter.WithMetrics(reg),
		httpAdapter.WithRedactor(redactor),
	)
	httpSrv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(opts.Output, "Starting sform server on %s\n", httpSrv.Addr)
		fmt.Fprintf(opts.Output, "Serving form '%s' from: %s\n", def.Config.Name, opts.Path)
		serverErrors <- httpSrv.ListenAndServe()
	}()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		fmt.Fprintf(opts.Output, "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := httpSrv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Fprintln(opts.Output, "sform server stopped gracefully")
		return nil
	}
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Path      string
	Transport string // "stdio" (default) or "sse"
	Port      int
	Debug     bool
	Mask      []string
}

// ServeMCP exposes the form as MCP tools, over stdio by default.
// Logs always go to stderr so they never corrupt the stdio transport.
func ServeMCP(opts MCPOptions) error {
	switch opts.Transport {
	case "", "stdio", "sse":
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
	logger := createLogger(opts.Debug)
	redactor, err := createRedactor(opts.Mask)
	if err != nil {
		return err
	}

	var hooks []domain.LifecycleHooks
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	form, def, err := LoadForm(FormOptions{Path: opts.Path, Logger: logger, Hooks: hooks})
	if err != nil {
		return err
	}

	srv := mcpAdapter.NewServer(form,
		mcpAdapter.WithLogger(logger),
		mcpAdapter.WithName(def.Config.Name),
		mcpAdapter.WithRedactor(redactor),
	)

	if opts.Transport != "sse" {
		logger.Info("Starting sform MCP Server (Stdio)...")
		return srv.ServeStdio()
	}

	logger.Info("Starting sform MCP Server (SSE)", "port", opts.Port)
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	if err := srv.ServeSSE(sigCtx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("MCP Server stopped gracefully")
	return nil
}
