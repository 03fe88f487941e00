package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/sform/internal/presentation/tui"
	"github.com/aretw0/sform/pkg/adapters/file"
)

// Validate compiles the form file and reports every configuration problem found.
func Validate(path string, w io.Writer) error {
	def, err := file.Load(path)
	if err != nil {
		tui.PrintProblems(w, err)
		return err
	}

	cfg := def.Config
	name := cfg.Name
	if name == "" {
		name = formName(path)
	}
	tui.PrintSuccess(w, fmt.Sprintf("Form '%s' is valid: %d field(s), %d whole-form constraint(s), %d whole-form message rule(s).",
		name, len(cfg.Fields), len(cfg.GlobalConstraints), len(cfg.GlobalMessages)))
	return nil
}
