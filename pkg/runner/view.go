package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/sform/pkg/domain"
)

// Form is the part of a form the runner drives. *sform.Form[string, string] satisfies it.
type Form interface {
	ApplyEdit(id string, raw string) error
	Fields() []domain.Binding[string, string]
	Has(id string) bool
	Snapshot() *domain.Snapshot[string, string]
}

// View is what a handler shows after each settled edit.
type View struct {
	Form    string                           `json:"form,omitempty"`
	Version int                              `json:"version"`
	Valid   bool                             `json:"valid"`
	Fields  []domain.Binding[string, string] `json:"fields"`
	Changed []string                         `json:"changed,omitempty"`
}

// NewView captures the current state of f.
func NewView(name string, f Form) View {
	snap := f.Snapshot()
	return View{
		Form:    name,
		Version: snap.Version(),
		Valid:   snap.Valid(),
		Fields:  f.Fields(),
	}
}

// Markdown renders the view as a markdown table, one row per field.
func (v View) Markdown() string {
	var b strings.Builder
	if v.Form != "" {
		fmt.Fprintf(&b, "## %s\n\n", v.Form)
	}

	changed := make(map[string]bool, len(v.Changed))
	for _, id := range v.Changed {
		changed[id] = true
	}

	b.WriteString("| Field | Value | Message |\n")
	b.WriteString("|---|---|---|\n")
	for _, f := range v.Fields {
		name := f.ID
		if label, ok := f.Props["label"].(string); ok && label != "" {
			name = label
		}
		if changed[f.ID] {
			name += " *"
		}
		msg := f.Error
		if msg != "" && f.Severity != domain.SeverityError {
			msg = fmt.Sprintf("%s (%s)", msg, f.Severity)
		}
		fmt.Fprintf(&b, "| %s | `%s` | %s |\n", escapeCell(name), escapeCell(f.Value), escapeCell(msg))
	}

	status := "valid"
	if !v.Valid {
		status = "invalid"
	}
	fmt.Fprintf(&b, "\n_version %d, %s_\n", v.Version, status)
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
