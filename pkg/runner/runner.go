package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/redact"
)

// Runner handles the edit loop of a form using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input/Output is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Name is shown as the title of every view.
	Name string

	// Headless suppresses the banner line and signal handling.
	Headless bool

	// Redactor masks sensitive values in every view. Nil shows values as they are.
	Redactor *redact.Redactor

	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run shows the form and applies edits until the user quits, the input ends or ctx
// is cancelled. Unless headless, SIGINT and SIGTERM end the loop cleanly.
func (r *Runner) Run(ctx context.Context, form Form) error {
	handler := r.resolveHandler()

	if !r.Headless {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	if err := handler.Output(ctx, r.view(form)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		line, err := handler.Input(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case ctx.Err() != nil:
				r.Logger.Debug("runner input: context cancelled", "err", ctx.Err())
				return nil
			case errors.Is(err, ErrInputTooLarge), errors.Is(err, ErrInvalidUTF8):
				if err := handler.SystemOutput(ctx, err.Error()); err != nil {
					return err
				}
				continue
			default:
				return fmt.Errorf("input error: %w", err)
			}
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			if err := handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}

		done, err := r.dispatch(ctx, handler, form, cmd)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, handler IOHandler, form Form, cmd Command) (bool, error) {
	switch cmd.Kind {
	case CommandQuit:
		return true, nil
	case CommandHelp:
		return false, handler.SystemOutput(ctx, helpText)
	case CommandShow:
		return false, handler.Output(ctx, r.view(form))
	case CommandValues:
		return false, handler.SystemOutput(ctx, formatValues(r.values(form)))
	}

	if !form.Has(cmd.Field) {
		return false, handler.SystemOutput(ctx, fmt.Sprintf("%v: %s", domain.ErrUnknownField, cmd.Field))
	}

	before := form.Snapshot()
	if err := form.ApplyEdit(cmd.Field, cmd.Value); err != nil {
		r.Logger.Debug("edit rejected", "field", cmd.Field, "err", err)
		return false, handler.SystemOutput(ctx, err.Error())
	}

	view := r.view(form)
	if diff := domain.Diff(before, form.Snapshot()); diff != nil {
		view.Changed = diff.Changed()
	}
	return false, handler.Output(ctx, view)
}

func (r *Runner) view(form Form) View {
	v := NewView(r.Name, form)
	v.Fields = r.Redactor.Bindings(v.Fields)
	return v
}

func (r *Runner) values(form Form) map[string]string {
	props := make(map[string]map[string]any)
	for _, b := range form.Fields() {
		props[b.ID] = b.Props
	}
	return r.Redactor.Values(form.Snapshot().Values(), func(id string) map[string]any { return props[id] })
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(r.Input, r.Output, WithTextHandlerRenderer(r.Renderer))
	if !r.Headless && r.Output != nil {
		fmt.Fprintln(r.Output, "--- sform (type :help for commands) ---")
	}
	return r.Handler
}

func formatValues(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s=%q", k, values[k])
	}
	return b.String()
}
