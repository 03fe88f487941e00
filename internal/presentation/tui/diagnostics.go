package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/sform/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintProblems writes one coloured line per configuration problem found in err.
// Errors that do not aggregate problems are written as a single line.
func PrintProblems(w io.Writer, err error) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	bullet := out.String("✗").Foreground(p.Color("#fb7185")).Bold()

	problems := []error{err}
	var cfgErr *domain.ConfigError
	if errors.As(err, &cfgErr) && len(cfgErr.Errors) > 0 {
		problems = cfgErr.Errors
	}
	for _, pr := range problems {
		fmt.Fprintf(w, "%s %s\n", bullet, pr)
	}
}

// PrintSuccess writes a single highlighted confirmation line.
func PrintSuccess(w io.Writer, msg string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	fmt.Fprintf(w, "%s %s\n", out.String("✓").Foreground(p.Color("#34d399")).Bold(), msg)
}
