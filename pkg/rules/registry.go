package rules

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/sform/pkg/domain"
)

// Values is the value map seen by global rules of declarative forms.
type Values = domain.Values[string, string]

// ConstraintFactory builds a field constraint from its argument.
type ConstraintFactory func(arg any) (domain.Constraint[string], error)

// PredicateFactory builds a field predicate from its argument.
type PredicateFactory func(arg any) (func(string) bool, error)

// GlobalConstraintFactory builds a whole-form constraint from its argument.
type GlobalConstraintFactory func(arg any) (domain.GlobalConstraint[string, string], error)

// GlobalPredicateFactory builds a whole-form predicate from its argument.
type GlobalPredicateFactory func(arg any) (func(Values) bool, error)

// Registry manages the available rule factories.
type Registry struct {
	mu                sync.RWMutex
	constraints       map[string]ConstraintFactory
	predicates        map[string]PredicateFactory
	globalConstraints map[string]GlobalConstraintFactory
	globalPredicates  map[string]GlobalPredicateFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constraints:       make(map[string]ConstraintFactory),
		predicates:        make(map[string]PredicateFactory),
		globalConstraints: make(map[string]GlobalConstraintFactory),
		globalPredicates:  make(map[string]GlobalPredicateFactory),
	}
}

// Default returns a new registry holding the built-in catalog.
func Default() *Registry {
	r := NewRegistry()
	registerConstraints(r)
	registerPredicates(r)
	registerGlobals(r)
	return r
}

// RegisterConstraint adds a field constraint factory.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) RegisterConstraint(name string, fn ConstraintFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constraints[name] = fn
}

// RegisterPredicate adds a field predicate factory.
func (r *Registry) RegisterPredicate(name string, fn PredicateFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicates[name] = fn
}

// RegisterGlobalConstraint adds a whole-form constraint factory.
func (r *Registry) RegisterGlobalConstraint(name string, fn GlobalConstraintFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globalConstraints[name] = fn
}

// RegisterGlobalPredicate adds a whole-form predicate factory.
func (r *Registry) RegisterGlobalPredicate(name string, fn GlobalPredicateFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globalPredicates[name] = fn
}

// Constraint looks up a field constraint by name and builds it.
func (r *Registry) Constraint(name string, arg any) (domain.Constraint[string], error) {
	fn, err := lookup(r, r.constraints, "constraint", name)
	if err != nil {
		return nil, err
	}
	return fn(arg)
}

// Predicate looks up a field predicate by name and builds it.
func (r *Registry) Predicate(name string, arg any) (func(string) bool, error) {
	fn, err := lookup(r, r.predicates, "predicate", name)
	if err != nil {
		return nil, err
	}
	return fn(arg)
}

// GlobalConstraint looks up a whole-form constraint by name and builds it.
func (r *Registry) GlobalConstraint(name string, arg any) (domain.GlobalConstraint[string, string], error) {
	fn, err := lookup(r, r.globalConstraints, "global constraint", name)
	if err != nil {
		return nil, err
	}
	return fn(arg)
}

// GlobalPredicate looks up a whole-form predicate by name and builds it.
func (r *Registry) GlobalPredicate(name string, arg any) (func(Values) bool, error) {
	fn, err := lookup(r, r.globalPredicates, "global predicate", name)
	if err != nil {
		return nil, err
	}
	return fn(arg)
}

// Catalog lists the registered names of each rule family, sorted.
func (r *Registry) Catalog() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string][]string{
		"constraints":        slices.Sorted(maps.Keys(r.constraints)),
		"predicates":         slices.Sorted(maps.Keys(r.predicates)),
		"global_constraints": slices.Sorted(maps.Keys(r.globalConstraints)),
		"global_predicates":  slices.Sorted(maps.Keys(r.globalPredicates)),
	}
}

func lookup[F any](r *Registry, table map[string]F, kind, name string) (F, error) {
	r.mu.RLock()
	fn, ok := table[name]
	r.mu.RUnlock()

	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownRule, kind, name)
	}
	return fn, nil
}
