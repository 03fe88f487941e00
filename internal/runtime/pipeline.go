package runtime

import (
	"github.com/aretw0/sform/pkg/domain"
)

// settle runs the full edit pipeline against prev and returns the next snapshot.
// prev is only read; the result shares no maps with it.
//
// Order matters: both transform passes complete before any message is computed, so
// per-field rules see the value after the form-wide constraints ran.
func settle[K ~string, V any](cfg domain.FormConfig[K, V], keys []K, prev *domain.Snapshot[K, V], id K, raw V) *domain.Snapshot[K, V] {
	middle := prev.Values()
	middle[id] = applyConstraints(cfg.Fields[id].Constraints, raw)

	values := applyGlobalConstraints(cfg.GlobalConstraints, middle, keys)

	global := globalMessages(cfg.GlobalMessages, values, keys)
	merged := make(map[K]domain.Message, len(keys))
	for _, k := range keys {
		merged[k] = prev.GlobalMessage(k)
	}
	for k, m := range global {
		merged[k] = m
	}

	return domain.NewSnapshot(prev.Version()+1, id, map[K]V(values), fieldMessages(cfg.Fields, values, keys), merged)
}

// applyConstraints folds fns left to right: g(f(raw)) for [f, g].
func applyConstraints[V any](fns []domain.Constraint[V], raw V) V {
	v := raw
	for _, fn := range fns {
		v = fn(v)
	}
	return v
}

// applyGlobalConstraints folds fns left to right over the whole mapping. Each result is
// projected back onto keys: undeclared keys are dropped and missing keys keep the value
// they had before that constraint ran.
func applyGlobalConstraints[K ~string, V any](fns []domain.GlobalConstraint[K, V], values domain.Values[K, V], keys []K) domain.Values[K, V] {
	acc := values
	for _, fn := range fns {
		out := fn(acc.Clone())
		next := make(domain.Values[K, V], len(keys))
		for _, k := range keys {
			if v, ok := out[k]; ok {
				next[k] = v
			} else {
				next[k] = acc[k]
			}
		}
		acc = next
	}
	return acc
}

// globalMessages starts from an all-empty mapping and merges the payload of every rule
// whose test holds. All rules see the same values; later rules win on conflicts.
func globalMessages[K ~string, V any](rules []domain.GlobalMessageRule[K, V], values domain.Values[K, V], keys []K) map[K]domain.Message {
	out := domain.EmptyMessages(keys)
	for _, rule := range rules {
		if !rule.Test(values.Clone()) {
			continue
		}
		for k, text := range rule.Message {
			if _, declared := out[k]; !declared {
				continue
			}
			out[k] = domain.Message{Text: text, Severity: rule.Severity.OrDefault()}
		}
	}
	return out
}

// fieldMessages tests every field's rules against that field's settled value. The last
// truthy rule wins; fields without one keep the empty message.
func fieldMessages[K ~string, V any](fields map[K]domain.FieldConfig[V], values domain.Values[K, V], keys []K) map[K]domain.Message {
	out := domain.EmptyMessages(keys)
	for _, k := range keys {
		v := values[k]
		for _, rule := range fields[k].Messages {
			if rule.Test(v) {
				out[k] = domain.Message{Text: rule.Message, Severity: rule.Severity.OrDefault()}
			}
		}
	}
	return out
}
