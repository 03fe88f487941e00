package cli

import (
	"context"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/internal/presentation/tui"
	"github.com/aretw0/sform/pkg/runner"
)

// RunSession executes a single interactive session over the form file.
func RunSession(opts RunOptions) error {
	opts = opts.withDefaults()
	logger := createLogger(opts.Debug)
	redactor, err := createRedactor(opts.Mask)
	if err != nil {
		return err
	}

	form, def, err := LoadForm(FormOptions{Path: opts.Path, Debug: opts.Debug, Logger: logger})
	if err != nil {
		return err
	}
	name := def.Config.Name

	if !opts.quiet() {
		tui.PrintBanner(opts.Output, sform.Version)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	logger.Info("Session Started", "form", name, "path", opts.Path)
	r := runner.NewRunner(createRunnerOptions(opts, logger, name, redactor, nil)...)
	runErr := r.Run(sigCtx, form)

	if !opts.quiet() {
		logCompletion(opts.Output, name, form.Valid(), sigCtx.Signal())
	}
	if err := handleExecutionError(runErr); err != nil {
		return err
	}
	if opts.Strict && !form.Valid() {
		return ErrFormInvalid
	}
	return nil
}
