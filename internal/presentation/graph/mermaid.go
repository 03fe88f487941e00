package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/sform/pkg/domain"
)

// Overlay contains live form state to visualize on the graph.
type Overlay struct {
	Invalid []string // fields currently showing an error
	Edited  string   // field that produced the current snapshot
}

// GenerateMermaid produces a Mermaid flowchart of a form's rule structure.
// It applies semantic styling:
// - Form: ((Circle))
// - Field: [/Parallelogram/] (an input)
// - Whole-form constraint: [[Subroutine]]
// - Whole-form message rule: {Rhombus}, with one labelled edge per annotated field
// It also applies overlay styles (Invalid/Edited) if provided.
func GenerateMermaid[K ~string, V any](cfg domain.FormConfig[K, V], overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	name := cfg.Name
	if name == "" {
		name = "form"
	}
	sb.WriteString(fmt.Sprintf("    form((\"%s\"))\n", escape(name)))

	ids := make([]string, 0, len(cfg.Fields))
	for id := range cfg.Fields {
		ids = append(ids, string(id))
	}
	slices.Sort(ids)

	for _, id := range ids {
		field := cfg.Fields[K(id)]
		safeID := fieldID(id)
		label := id
		if counts := describe(len(field.Constraints), len(field.Messages)); counts != "" {
			label = fmt.Sprintf("%s <br/> %s", id, counts)
		}
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", safeID, escape(label)))
		sb.WriteString(fmt.Sprintf("    form --> %s\n", safeID))
	}

	for i := range cfg.GlobalConstraints {
		sb.WriteString(fmt.Sprintf("    gc%d[[\"transform %d\"]]\n", i+1, i+1))
		sb.WriteString(fmt.Sprintf("    form -.-> gc%d\n", i+1))
	}

	for i, rule := range cfg.GlobalMessages {
		ruleID := fmt.Sprintf("gm%d", i+1)
		sb.WriteString(fmt.Sprintf("    %s{\"check %d\"}\n", ruleID, i+1))
		targets := make([]string, 0, len(rule.Message))
		for k := range rule.Message {
			targets = append(targets, string(k))
		}
		slices.Sort(targets)
		for _, target := range targets {
			arrow := "-.->"
			if msg := rule.Message[K(target)]; msg != "" {
				arrow = fmt.Sprintf("-. \"%s\" .->", escape(msg))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", ruleID, arrow, fieldID(target)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef edited fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Invalid {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s invalid;\n", fieldID(id)))
		}
		if overlay.Edited != "" {
			sb.WriteString(fmt.Sprintf("    class %s edited;\n", fieldID(overlay.Edited)))
		}
	}

	return sb.String()
}

// NewOverlay derives an overlay from a settled snapshot.
func NewOverlay[K ~string, V any](s *domain.Snapshot[K, V]) *Overlay {
	o := &Overlay{Edited: string(s.Edited())}
	for _, k := range s.Keys() {
		if m := s.Error(k); !m.IsZero() && m.Severity.OrDefault() == domain.SeverityError {
			o.Invalid = append(o.Invalid, string(k))
		}
	}
	return o
}

func describe(constraints, messages int) string {
	var parts []string
	if constraints > 0 {
		parts = append(parts, plural(constraints, "constraint"))
	}
	if messages > 0 {
		parts = append(parts, plural(messages, "message"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// fieldID prefixes field ids so they never collide with the reserved node ids.
func fieldID(id string) string {
	return "f_" + sanitizeMermaidID(id)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
