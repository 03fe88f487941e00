package cli

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/internal/presentation/tui"
	"github.com/aretw0/sform/pkg/adapters/file"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/redact"
	"github.com/aretw0/sform/pkg/runner"
)

// RunWatch executes sform in development mode, reloading the form when its file changes.
// Values entered so far are replayed onto the reloaded form.
func RunWatch(opts RunOptions) error {
	opts = opts.withDefaults()
	logger := createLogger(opts.Debug)
	redactor, err := createRedactor(opts.Mask)
	if err != nil {
		return err
	}
	tui.PrintBanner(opts.Output, sform.Version)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	changes, err := file.Watch(sigCtx, opts.Path, logger)
	if err != nil {
		return err
	}
	logger.Info("Starting Watcher", "path", opts.Path)
	printSystemMessage(opts.Output, "Watching '%s'.", opts.Path)

	// One handler for every iteration: a second stdin pump would steal input.
	handler := runner.NewTextHandler(opts.Input, opts.Output)
	if opts.Pretty {
		handler.Renderer = tui.NewRenderer()
	}

	var carried domain.Values[string, string]
	for {
		form, def, err := LoadForm(FormOptions{Path: opts.Path, Debug: opts.Debug, Logger: logger})
		if err != nil {
			logger.Error("Form load failed", "err", err)
			tui.PrintProblems(opts.Output, err)
			printSystemMessage(opts.Output, "Waiting for changes...")
			if !waitForChange(sigCtx, changes) {
				return nil
			}
			continue
		}

		if n := restoreValues(form, carried); n > 0 {
			logger.Debug("Values restored", "count", n)
			printSystemMessage(opts.Output, "Restored %d value(s).", n)
		}

		reload, err := runWatchIteration(sigCtx, opts, logger, redactor, handler, form, def.Config.Name, changes)
		carried = form.Values()
		if err != nil || !reload {
			return handleExecutionError(err)
		}
		printSystemMessage(opts.Output, "Change detected in '%s'.", opts.Path)
		logger.Info("Watcher reloading")
	}
}

func runWatchIteration(parent *SignalContext, opts RunOptions, logger *slog.Logger, redactor *redact.Redactor, handler runner.IOHandler, form *sform.Form[string, string], name string, changes <-chan string) (bool, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	r := runner.NewRunner(createRunnerOptions(opts, logger, name, redactor, handler)...)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, form)
	}()

	select {
	case <-parent.Done():
		<-done
		logCompletion(opts.Output, name, form.Valid(), parent.Signal())
		logger.Info("Stopping watcher (signal received)", "signal", parent.Signal())
		return false, nil
	case _, ok := <-changes:
		cancel()
		<-done
		return ok, nil
	case err := <-done:
		if err == nil {
			logCompletion(opts.Output, name, form.Valid(), nil)
		}
		return false, err
	}
}

func waitForChange(ctx context.Context, changes <-chan string) bool {
	select {
	case <-ctx.Done():
		return false
	case _, ok := <-changes:
		return ok
	}
}

// restoreValues replays carried values onto a freshly loaded form, in key order.
// Fields that no longer exist or already hold the value are skipped. It returns the
// number of edits applied.
func restoreValues(form *sform.Form[string, string], carried domain.Values[string, string]) int {
	applied := 0
	for _, id := range slices.Sorted(maps.Keys(carried)) {
		if !form.Has(id) {
			continue
		}
		if current, _ := form.Snapshot().Value(id); current == carried[id] {
			continue
		}
		if err := form.ApplyEdit(id, carried[id]); err == nil {
			applied++
		}
	}
	return applied
}
