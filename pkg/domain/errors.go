package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReentrantEdit is returned when a rule tries to edit the engine that is evaluating it.
var ErrReentrantEdit = errors.New("edit issued while another edit is settling")

// ErrUnknownField is returned by adapters when a request names an undeclared field.
// The engine itself treats such edits as no-ops.
var ErrUnknownField = errors.New("unknown field")

// ErrNoFields is returned when a form declares no fields.
var ErrNoFields = errors.New("form declares no fields")

// FieldError is a single configuration problem.
type FieldError struct {
	Field  string // empty for form-level problems
	Reason string
	Err    error // optional cause
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ConfigError aggregates every problem found while validating a FormConfig.
type ConfigError struct {
	Form   string
	Errors []error
}

func (e *ConfigError) Error() string {
	prefix := "invalid form"
	if e.Form != "" {
		prefix = fmt.Sprintf("invalid form %q", e.Form)
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", prefix, e.Errors[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d problems:\n", prefix, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() []error {
	return e.Errors
}
