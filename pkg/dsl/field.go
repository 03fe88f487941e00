package dsl

import (
	"maps"
	"slices"

	"github.com/aretw0/sform/pkg/domain"
)

// FieldBuilder provides a fluent API for configuring a field.
type FieldBuilder[K ~string, V any] struct {
	field   domain.FieldConfig[V]
	builder *Builder[K, V]
}

// Initial sets the value the field starts with.
func (f *FieldBuilder[K, V]) Initial(v V) *FieldBuilder[K, V] {
	f.field.Initial = v
	return f
}

// Constrain appends transformations applied, in order, to every raw edit of the field.
func (f *FieldBuilder[K, V]) Constrain(fns ...domain.Constraint[V]) *FieldBuilder[K, V] {
	f.field.Constraints = append(f.field.Constraints, fns...)
	return f
}

// Message adds an error shown whenever test holds on the settled value.
func (f *FieldBuilder[K, V]) Message(test func(V) bool, message string) *FieldBuilder[K, V] {
	return f.rule(domain.SeverityError, test, message)
}

// Warn adds a warning. Warnings do not make the form invalid.
func (f *FieldBuilder[K, V]) Warn(test func(V) bool, message string) *FieldBuilder[K, V] {
	return f.rule(domain.SeverityWarning, test, message)
}

// Info adds an informational message.
func (f *FieldBuilder[K, V]) Info(test func(V) bool, message string) *FieldBuilder[K, V] {
	return f.rule(domain.SeverityInfo, test, message)
}

func (f *FieldBuilder[K, V]) rule(severity domain.Severity, test func(V) bool, message string) *FieldBuilder[K, V] {
	f.field.Messages = append(f.field.Messages, domain.MessageRule[V]{
		Test:     test,
		Message:  message,
		Severity: severity,
	})
	return f
}

// Prop adds a presentation prop passed through to the renderer.
func (f *FieldBuilder[K, V]) Prop(key string, value any) *FieldBuilder[K, V] {
	if f.field.Props == nil {
		f.field.Props = make(map[string]any)
	}
	f.field.Props[key] = value
	return f
}

// Label is shorthand for Prop("label", label).
func (f *FieldBuilder[K, V]) Label(label string) *FieldBuilder[K, V] {
	return f.Prop("label", label)
}

// Field continues with another field of the same form.
func (f *FieldBuilder[K, V]) Field(id K) *FieldBuilder[K, V] {
	return f.builder.Field(id)
}

// Build returns a copy of the underlying domain.FieldConfig.
// This is primarily used by the Builder, but exposed for advanced usage.
func (f *FieldBuilder[K, V]) Build() domain.FieldConfig[V] {
	return domain.FieldConfig[V]{
		Initial:     f.field.Initial,
		Constraints: slices.Clone(f.field.Constraints),
		Messages:    slices.Clone(f.field.Messages),
		Props:       maps.Clone(f.field.Props),
	}
}
