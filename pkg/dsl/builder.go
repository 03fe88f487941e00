package dsl

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/sform/pkg/domain"
)

// Builder manages the form construction.
type Builder[K ~string, V any] struct {
	name              string
	fields            map[K]*FieldBuilder[K, V]
	globalConstraints []domain.GlobalConstraint[K, V]
	globalMessages    []domain.GlobalMessageRule[K, V]
}

// New creates a new form builder.
func New[K ~string, V any](name string) *Builder[K, V] {
	return &Builder[K, V]{
		name:   name,
		fields: make(map[K]*FieldBuilder[K, V]),
	}
}

// Field declares a field in the form.
// If the field already exists, it returns the existing builder.
func (b *Builder[K, V]) Field(id K) *FieldBuilder[K, V] {
	if fb, ok := b.fields[id]; ok {
		return fb
	}
	fb := &FieldBuilder[K, V]{builder: b}
	b.fields[id] = fb
	return fb
}

// Transform appends form-wide constraints, run in order after the edited field's own
// constraints.
func (b *Builder[K, V]) Transform(fns ...domain.GlobalConstraint[K, V]) *Builder[K, V] {
	b.globalConstraints = append(b.globalConstraints, fns...)
	return b
}

// Check appends a form-wide error rule annotating every field named in message.
func (b *Builder[K, V]) Check(test func(domain.Values[K, V]) bool, message map[K]string) *Builder[K, V] {
	return b.CheckWith(domain.SeverityError, test, message)
}

// CheckWith is Check with an explicit severity.
func (b *Builder[K, V]) CheckWith(severity domain.Severity, test func(domain.Values[K, V]) bool, message map[K]string) *Builder[K, V] {
	b.globalMessages = append(b.globalMessages, domain.GlobalMessageRule[K, V]{
		Test:     test,
		Message:  maps.Clone(message),
		Severity: severity,
	})
	return b
}

// Build compiles the declared fields and rules into a validated FormConfig.
// The result shares no slices or maps with the builder.
func (b *Builder[K, V]) Build() (domain.FormConfig[K, V], error) {
	cfg := domain.FormConfig[K, V]{
		Name:              b.name,
		Fields:            make(map[K]domain.FieldConfig[V], len(b.fields)),
		GlobalConstraints: slices.Clone(b.globalConstraints),
		GlobalMessages:    slices.Clone(b.globalMessages),
	}
	for id, fb := range b.fields {
		cfg.Fields[id] = fb.Build()
	}

	if err := cfg.Validate(); err != nil {
		return domain.FormConfig[K, V]{}, fmt.Errorf("failed to build form %q: %w", b.name, err)
	}
	return cfg, nil
}

// MustBuild is like Build but panics on error. Meant for package-level form declarations.
func (b *Builder[K, V]) MustBuild() domain.FormConfig[K, V] {
	cfg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}
