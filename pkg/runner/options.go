package runner

import (
	"io"
	"log/slog"

	"github.com/aretw0/sform/pkg/redact"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless sets the runner to headless mode.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithName sets the title shown above the form.
func WithName(name string) Option {
	return func(r *Runner) {
		r.Name = name
	}
}

// WithIO replaces Stdin/Stdout for the default text handler.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithRedactor masks sensitive field values in every view.
func WithRedactor(redactor *redact.Redactor) Option {
	return func(r *Runner) {
		r.Redactor = redactor
	}
}
