package domain

import "slices"

// Message is a diagnostic attached to a field. The zero Message means "no message".
type Message struct {
	Text     string   `json:"text,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

// IsZero reports whether the message carries no text.
func (m Message) IsZero() bool {
	return m.Text == ""
}

// Snapshot is one settled state of a form. It is never modified after construction;
// every edit produces a new Snapshot.
type Snapshot[K ~string, V any] struct {
	version        int
	edited         K
	values         map[K]V
	fieldMessages  map[K]Message
	globalMessages map[K]Message
}

// NewSnapshot takes ownership of the given maps. Callers must not retain them.
func NewSnapshot[K ~string, V any](version int, edited K, values map[K]V, fieldMessages, globalMessages map[K]Message) *Snapshot[K, V] {
	return &Snapshot[K, V]{
		version:        version,
		edited:         edited,
		values:         values,
		fieldMessages:  fieldMessages,
		globalMessages: globalMessages,
	}
}

// InitialSnapshot builds the version 0 snapshot: initial values and empty messages for
// every declared field.
func InitialSnapshot[K ~string, V any](cfg FormConfig[K, V]) *Snapshot[K, V] {
	return NewSnapshot(0, K(""), map[K]V(cfg.InitialValues()), EmptyMessages(cfg.Keys()), EmptyMessages(cfg.Keys()))
}

// EmptyMessages returns a message map holding the zero Message for each key.
func EmptyMessages[K ~string](keys []K) map[K]Message {
	out := make(map[K]Message, len(keys))
	for _, k := range keys {
		out[k] = Message{}
	}
	return out
}

// Version counts the edits settled so far.
func (s *Snapshot[K, V]) Version() int { return s.version }

// Edited is the field whose edit produced this snapshot, empty for the initial one.
func (s *Snapshot[K, V]) Edited() K { return s.edited }

// Keys returns the field ids in lexical order.
func (s *Snapshot[K, V]) Keys() []K {
	keys := make([]K, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Has reports whether id is part of the snapshot.
func (s *Snapshot[K, V]) Has(id K) bool {
	_, ok := s.values[id]
	return ok
}

// Value returns the settled value of id.
func (s *Snapshot[K, V]) Value(id K) (V, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Values returns a copy of the value mapping.
func (s *Snapshot[K, V]) Values() Values[K, V] {
	return Values[K, V](s.values).Clone()
}

// FieldMessage returns the message produced by id's own rules.
func (s *Snapshot[K, V]) FieldMessage(id K) Message { return s.fieldMessages[id] }

// GlobalMessage returns the message produced for id by the form-wide rules.
func (s *Snapshot[K, V]) GlobalMessage(id K) Message { return s.globalMessages[id] }

// Error resolves the message shown for id: the field's own message wins over the
// form-wide one.
func (s *Snapshot[K, V]) Error(id K) Message {
	if m := s.fieldMessages[id]; !m.IsZero() {
		return m
	}
	return s.globalMessages[id]
}

// FieldMessages returns the per-field message texts, keyed by every field.
func (s *Snapshot[K, V]) FieldMessages() map[K]string { return texts(s.fieldMessages) }

// GlobalMessages returns the form-wide message texts, keyed by every field.
func (s *Snapshot[K, V]) GlobalMessages() map[K]string { return texts(s.globalMessages) }

// Errors returns the resolved message text of every field.
func (s *Snapshot[K, V]) Errors() map[K]string {
	out := make(map[K]string, len(s.values))
	for k := range s.values {
		out[k] = s.Error(k).Text
	}
	return out
}

// Valid reports whether no field resolves to an error-severity message.
func (s *Snapshot[K, V]) Valid() bool {
	for k := range s.values {
		m := s.Error(k)
		if !m.IsZero() && m.Severity.OrDefault() == SeverityError {
			return false
		}
	}
	return true
}

func texts[K ~string](in map[K]Message) map[K]string {
	out := make(map[K]string, len(in))
	for k, m := range in {
		out[k] = m.Text
	}
	return out
}
