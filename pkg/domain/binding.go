package domain

import "encoding/json"

// Binding is the externally observable state of one field, shaped to be handed
// directly to an input-rendering collaborator.
type Binding[K ~string, V any] struct {
	ID       K
	Value    V
	Props    map[string]any
	Error    string
	Severity Severity
	// OnChange applies a raw edit to this field.
	OnChange func(V) error
}

// Attrs flattens the binding: presentation props first, then the standard keys, which
// win on conflict.
func (b Binding[K, V]) Attrs() map[string]any {
	attrs := make(map[string]any, len(b.Props)+4)
	for k, v := range b.Props {
		attrs[k] = v
	}
	attrs["id"] = string(b.ID)
	attrs["value"] = b.Value
	if b.Error != "" {
		attrs["error"] = b.Error
		attrs["severity"] = string(b.Severity)
	}
	return attrs
}

// MarshalJSON encodes the flattened attributes. OnChange is never serialized.
func (b Binding[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Attrs())
}
