package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/runner"
)

// EditOptions configures a one-shot, non-interactive batch of edits.
type EditOptions struct {
	Path   string
	Set    []string // "id=value" assignments, applied in order
	JSON   bool
	Strict bool
	Debug  bool
	Mask   []string
	Output io.Writer
}

// EditReport is the JSON document printed by Edit.
type EditReport struct {
	runner.View
	// Values holds every value parsed to its declared type; empty text is null.
	// It is omitted when some value does not parse.
	Values map[string]any `json:"values,omitempty"`
}

// Edit loads the form, applies every assignment and prints the settled form.
func Edit(opts EditOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	redactor, err := createRedactor(opts.Mask)
	if err != nil {
		return err
	}
	form, def, err := LoadForm(FormOptions{Path: opts.Path, Debug: opts.Debug})
	if err != nil {
		return err
	}

	before := form.Snapshot()
	if err := applyAssignments(form, opts.Set); err != nil {
		return err
	}

	view := runner.NewView(def.Config.Name, form)
	view.Fields = redactor.Bindings(view.Fields)
	if diff := domain.Diff(before, form.Snapshot()); diff != nil {
		view.Changed = diff.Changed()
	}

	if opts.JSON {
		report := EditReport{View: view}
		props := func(id string) map[string]any { return form.Field(id).Props }
		if typed, err := def.Schema.Typed(redactor.Values(form.Values(), props)); err == nil {
			report.Values = typed
		}
		enc := json.NewEncoder(opts.Output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(opts.Output, view.Markdown())
	}

	if opts.Strict && !view.Valid {
		return ErrFormInvalid
	}
	return nil
}

// applyAssignments parses and applies "id=value" pairs. Unlike the interactive runner,
// an undeclared id is an error here.
func applyAssignments(form *sform.Form[string, string], assignments []string) error {
	for _, a := range assignments {
		cmd, err := runner.ParseCommand(a)
		if err != nil || cmd.Kind != runner.CommandEdit {
			return fmt.Errorf("invalid assignment %q: expected id=value", a)
		}
		value, err := runner.SanitizeInput(cmd.Value)
		if err != nil {
			return fmt.Errorf("invalid assignment %q: %w", a, err)
		}
		if !form.Has(cmd.Field) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownField, cmd.Field)
		}
		if err := form.ApplyEdit(cmd.Field, value); err != nil {
			return fmt.Errorf("failed to edit %s: %w", cmd.Field, err)
		}
	}
	return nil
}
