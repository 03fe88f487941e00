package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/sform/internal/presentation/graph"
)

// Graph prints a Mermaid flowchart of the form's rules. When assignments are given
// they are applied first and the resulting state is drawn as an overlay.
func Graph(path string, assignments []string, w io.Writer) error {
	form, def, err := LoadForm(FormOptions{Path: path})
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if len(assignments) > 0 {
		if err := applyAssignments(form, assignments); err != nil {
			return err
		}
		overlay = graph.NewOverlay(form.Snapshot())
	}

	_, err = fmt.Fprint(w, graph.GenerateMermaid(def.Config, overlay))
	return err
}
