package domain

import (
	"fmt"
	"slices"
)

// Values maps every declared field to its current value.
type Values[K ~string, V any] map[K]V

// Clone returns a shallow copy of the mapping.
func (v Values[K, V]) Clone() Values[K, V] {
	out := make(Values[K, V], len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Constraint transforms a single field value. It must be pure.
type Constraint[V any] func(V) V

// GlobalConstraint transforms the whole value mapping and returns its replacement.
// It receives a private copy and may modify it in place.
type GlobalConstraint[K ~string, V any] func(Values[K, V]) Values[K, V]

// Severity classifies a diagnostic message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// OrDefault returns SeverityError when s is unset.
func (s Severity) OrDefault() Severity {
	if s == "" {
		return SeverityError
	}
	return s
}

// ParseSeverity converts a textual severity. The empty string yields SeverityError.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case "", SeverityError:
		return SeverityError, nil
	case SeverityWarning, SeverityInfo:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// MessageRule attaches Message to a field whenever Test holds on that field's value.
type MessageRule[V any] struct {
	Test     func(V) bool
	Message  string
	Severity Severity
}

// GlobalMessageRule annotates any number of fields at once when Test holds on the
// whole value mapping.
type GlobalMessageRule[K ~string, V any] struct {
	Test     func(Values[K, V]) bool
	Message  map[K]string
	Severity Severity
}

// FieldConfig describes one independently editable slot.
type FieldConfig[V any] struct {
	Initial     V
	Constraints []Constraint[V]
	Messages    []MessageRule[V]
	// Props are passed through untouched to the rendering collaborator.
	Props map[string]any
}

// FormConfig is the immutable description of a form. It is handed to the engine once
// and must not be modified afterwards.
type FormConfig[K ~string, V any] struct {
	Name              string
	Fields            map[K]FieldConfig[V]
	GlobalConstraints []GlobalConstraint[K, V]
	GlobalMessages    []GlobalMessageRule[K, V]
}

// Keys returns the declared field ids in lexical order.
func (c FormConfig[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.Fields))
	for k := range c.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Has reports whether id is a declared field.
func (c FormConfig[K, V]) Has(id K) bool {
	_, ok := c.Fields[id]
	return ok
}

// InitialValues returns the value mapping a fresh engine starts from.
func (c FormConfig[K, V]) InitialValues() Values[K, V] {
	values := make(Values[K, V], len(c.Fields))
	for k, f := range c.Fields {
		values[k] = f.Initial
	}
	return values
}

// Validate performs configuration-time checks. The engine never calls it; it is run by
// the builders and by sform.New.
func (c FormConfig[K, V]) Validate() error {
	if len(c.Fields) == 0 {
		return ErrNoFields
	}

	var errs []error
	for _, id := range c.Keys() {
		f := c.Fields[id]
		if id == "" {
			errs = append(errs, &FieldError{Field: string(id), Reason: "empty field id"})
			continue
		}
		for i, fn := range f.Constraints {
			if fn == nil {
				errs = append(errs, &FieldError{Field: string(id), Reason: fmt.Sprintf("constraint %d is nil", i)})
			}
		}
		for i, rule := range f.Messages {
			if rule.Test == nil {
				errs = append(errs, &FieldError{Field: string(id), Reason: fmt.Sprintf("message rule %d has no test", i)})
			}
		}
	}

	for i, fn := range c.GlobalConstraints {
		if fn == nil {
			errs = append(errs, &FieldError{Reason: fmt.Sprintf("global constraint %d is nil", i)})
		}
	}
	for i, rule := range c.GlobalMessages {
		if rule.Test == nil {
			errs = append(errs, &FieldError{Reason: fmt.Sprintf("global message rule %d has no test", i)})
		}
		targets := make([]K, 0, len(rule.Message))
		for k := range rule.Message {
			targets = append(targets, k)
		}
		slices.Sort(targets)
		for _, k := range targets {
			if !c.Has(k) {
				errs = append(errs, &FieldError{Field: string(k), Reason: fmt.Sprintf("global message rule %d targets an undeclared field", i)})
			}
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Form: c.Name, Errors: errs}
	}
	return nil
}
