package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/sform/internal/logging"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/redact"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow UI).
func createLogger(debug bool) *slog.Logger {
	return logging.ForDebug(debug)
}

// createRedactor masks fields marked secret plus the ids matching patterns.
func createRedactor(patterns []string) (*redact.Redactor, error) {
	r, err := redact.New(patterns...)
	if err != nil {
		return nil, fmt.Errorf("invalid --mask: %w", err)
	}
	return r, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEdit: func(e *domain.EditEvent) {
			logger.Debug("Edit", "field", e.Field)
		},
		OnIgnored: func(e *domain.EditEvent) {
			logger.Debug("Edit Ignored", "field", e.Field)
		},
		OnSettle: func(e *domain.SettleEvent) {
			logger.Debug("Settled", "field", e.Field, "version", e.Version, "changed", e.Changed, "duration", e.Duration)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}

func logCompletion(w io.Writer, name string, valid bool, sig os.Signal) {
	switch {
	case sig == os.Interrupt:
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted '%s'.", name)
	case sig != nil:
		fmt.Fprintln(w)
		printSystemMessage(w, "Terminated '%s'.", name)
	case valid:
		printSystemMessage(w, "Finished '%s': valid.", name)
	default:
		printSystemMessage(w, "Finished '%s': invalid.", name)
	}
}
