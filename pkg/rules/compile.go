package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/sform/pkg/domain"
)

// Split returns the name and argument of a single-key rule document.
func Split(doc map[string]any) (string, any, error) {
	if len(doc) != 1 {
		return "", nil, fmt.Errorf("%w: got %d keys", ErrMalformedRule, len(doc))
	}
	var (
		name string
		arg  any
	)
	for name, arg = range doc {
	}
	return name, arg, nil
}

// Constraints builds an ordered constraint chain from rule documents.
func (r *Registry) Constraints(docs []map[string]any) ([]domain.Constraint[string], error) {
	out := make([]domain.Constraint[string], 0, len(docs))
	for i, doc := range docs {
		name, arg, err := Split(doc)
		if err != nil {
			return nil, fmt.Errorf("constraint #%d: %w", i, err)
		}
		c, err := r.Constraint(name, arg)
		if err != nil {
			return nil, fmt.Errorf("constraint #%d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// When builds a field predicate from a rule document. Several keys are combined
// with a logical AND, evaluated in lexical order of their names.
func (r *Registry) When(doc map[string]any) (func(string) bool, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty predicate", ErrMalformedRule)
	}
	tests := make([]func(string) bool, 0, len(doc))
	for _, name := range sortedKeys(doc) {
		p, err := r.Predicate(name, doc[name])
		if err != nil {
			return nil, err
		}
		tests = append(tests, p)
	}
	if len(tests) == 1 {
		return tests[0], nil
	}
	return func(v string) bool {
		for _, t := range tests {
			if !t(v) {
				return false
			}
		}
		return true
	}, nil
}

// GlobalConstraints builds an ordered whole-form constraint chain from rule documents.
func (r *Registry) GlobalConstraints(docs []map[string]any) ([]domain.GlobalConstraint[string, string], error) {
	out := make([]domain.GlobalConstraint[string, string], 0, len(docs))
	for i, doc := range docs {
		name, arg, err := Split(doc)
		if err != nil {
			return nil, fmt.Errorf("global constraint #%d: %w", i, err)
		}
		c, err := r.GlobalConstraint(name, arg)
		if err != nil {
			return nil, fmt.Errorf("global constraint #%d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// GlobalWhen builds a whole-form predicate from a rule document, AND-combining its keys.
func (r *Registry) GlobalWhen(doc map[string]any) (func(Values) bool, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty predicate", ErrMalformedRule)
	}
	tests := make([]func(Values) bool, 0, len(doc))
	for _, name := range sortedKeys(doc) {
		p, err := r.GlobalPredicate(name, doc[name])
		if err != nil {
			return nil, err
		}
		tests = append(tests, p)
	}
	return func(v Values) bool {
		for _, t := range tests {
			if !t(v) {
				return false
			}
		}
		return true
	}, nil
}

// decode copies a loosely typed rule argument into out.
func decode(name string, arg, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(arg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArgument, name, err)
	}
	return nil
}

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, name, fmt.Sprintf(format, args...))
}

func sortedKeys(doc map[string]any) []string {
	return slices.Sorted(maps.Keys(doc))
}
