// Package redact masks the values of sensitive fields before they leave the process
// through an outer surface (terminal views, HTTP responses, MCP results).
//
// A field is sensitive when its props carry secret: true, or when its id matches one
// of the configured patterns. The form itself always holds the real value.
package redact

import (
	"fmt"
	"maps"
	"regexp"

	"github.com/aretw0/sform/pkg/domain"
)

// Mask replaces every non-empty sensitive value.
const Mask = "***"

// SecretProp is the presentation prop that marks a field as sensitive.
const SecretProp = "secret"

// Redactor decides which fields are sensitive. A nil *Redactor masks nothing.
type Redactor struct {
	patterns []*regexp.Regexp
}

// New creates a Redactor honouring the secret prop and masking ids matching patterns.
func New(patterns ...string) (*Redactor, error) {
	r := &Redactor{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(patterns ...string) *Redactor {
	r, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return r
}

// Sensitive reports whether the field with the given id and props must be masked.
func (r *Redactor) Sensitive(id string, props map[string]any) bool {
	if r == nil {
		return false
	}
	if secret, ok := props[SecretProp].(bool); ok && secret {
		return true
	}
	for _, p := range r.patterns {
		if p.MatchString(id) {
			return true
		}
	}
	return false
}

// Binding returns b with its value masked when the field is sensitive.
// Empty values stay empty so requiredness remains visible.
func (r *Redactor) Binding(b domain.Binding[string, string]) domain.Binding[string, string] {
	if b.Value == "" || !r.Sensitive(b.ID, b.Props) {
		return b
	}
	b.Value = Mask
	return b
}

// Bindings masks a slice of bindings. The input slice is not modified.
func (r *Redactor) Bindings(in []domain.Binding[string, string]) []domain.Binding[string, string] {
	if r == nil {
		return in
	}
	out := make([]domain.Binding[string, string], len(in))
	for i, b := range in {
		out[i] = r.Binding(b)
	}
	return out
}

// Values masks a copy of values. props returns the presentation props of a field.
func (r *Redactor) Values(values map[string]string, props func(id string) map[string]any) map[string]string {
	out := maps.Clone(values)
	if r == nil {
		return out
	}
	for id, v := range out {
		if v != "" && r.Sensitive(id, props(id)) {
			out[id] = Mask
		}
	}
	return out
}
