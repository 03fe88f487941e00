package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/sform/internal/presentation/tui"
	"github.com/aretw0/sform/pkg/redact"
	"github.com/aretw0/sform/pkg/runner"
)

// ErrFormInvalid is returned in strict mode when the form ends with an error showing.
var ErrFormInvalid = errors.New("form is invalid")

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Path     string
	Headless bool
	Watch    bool
	JSON     bool
	Debug    bool
	Strict   bool
	// Pretty renders the form markdown with glamour. Meant for terminals.
	Pretty bool
	// Mask lists id patterns whose values are hidden, on top of secret fields.
	Mask []string

	Input  io.Reader
	Output io.Writer
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Input == nil {
		o.Input = os.Stdin
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	return o
}

// quiet reports whether decorations (banner, system messages) must stay off Output.
func (o RunOptions) quiet() bool {
	return o.JSON || o.Headless
}

// Execute handles the 'run' command logic, dispatching to Session or Watch mode.
func Execute(opts RunOptions) error {
	if opts.Watch {
		if opts.Headless || opts.JSON {
			return errors.New("--watch cannot be combined with --headless or --json")
		}
		return RunWatch(opts)
	}
	return RunSession(opts)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(opts RunOptions, logger *slog.Logger, name string, redactor *redact.Redactor, handler runner.IOHandler) []runner.Option {
	ropts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithRedactor(redactor),
		runner.WithHeadless(opts.Headless),
		runner.WithName(name),
		runner.WithIO(opts.Input, opts.Output),
	}

	switch {
	case opts.JSON:
		ropts = append(ropts, runner.WithInputHandler(runner.NewJSONHandler(opts.Input, opts.Output)))
	case handler != nil:
		ropts = append(ropts, runner.WithInputHandler(handler))
	case opts.Pretty:
		ropts = append(ropts, runner.WithRenderer(tui.NewRenderer()))
	}
	return ropts
}
