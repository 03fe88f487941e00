package domain

import (
	"reflect"
	"slices"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff[K ~string, V any] struct {
	Version int `json:"version"`
	Field   K   `json:"field,omitempty"`

	// Values contains only the fields whose value changed.
	Values map[K]V `json:"values,omitempty"`

	// Errors contains only the fields whose resolved message changed.
	// A cleared message appears as the zero Message.
	Errors map[K]Message `json:"errors,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, the diff carries the whole of newSnap (initial load).
// It returns nil when nothing observable changed.
func Diff[K ~string, V any](oldSnap, newSnap *Snapshot[K, V]) *SnapshotDiff[K, V] {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff[K, V]{
		Version: newSnap.version,
		Field:   newSnap.edited,
		Values:  make(map[K]V),
		Errors:  make(map[K]Message),
	}

	for k, v := range newSnap.values {
		if oldSnap == nil {
			diff.Values[k] = v
			diff.Errors[k] = newSnap.Error(k)
			continue
		}
		if old, ok := oldSnap.values[k]; !ok || !reflect.DeepEqual(old, v) {
			diff.Values[k] = v
		}
		if oldSnap.Error(k) != newSnap.Error(k) {
			diff.Errors[k] = newSnap.Error(k)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	if len(diff.Values) == 0 {
		diff.Values = nil
	}
	if len(diff.Errors) == 0 {
		diff.Errors = nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff[K, V]) IsEmpty() bool {
	return len(d.Values) == 0 && len(d.Errors) == 0
}

// Changed lists the fields touched by the diff, in lexical order.
func (d *SnapshotDiff[K, V]) Changed() []K {
	if d == nil {
		return nil
	}
	seen := make(map[K]struct{}, len(d.Values)+len(d.Errors))
	for k := range d.Values {
		seen[k] = struct{}{}
	}
	for k := range d.Errors {
		seen[k] = struct{}{}
	}
	out := make([]K, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
