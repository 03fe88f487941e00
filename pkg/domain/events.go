package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventEditApplied EventType = "edit_applied"
	EventEditIgnored EventType = "edit_ignored"
	EventSettled     EventType = "settled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Form      string    `json:"form,omitempty"`
}

// EditEvent reports a raw edit as it enters the engine.
type EditEvent struct {
	EventBase
	Field string `json:"field"`
	Raw   any    `json:"raw,omitempty"`
}

// SettleEvent reports a committed snapshot.
type SettleEvent struct {
	EventBase
	Field    string        `json:"field"`
	Version  int           `json:"version"`
	Changed  []string      `json:"changed,omitempty"`
	Duration time.Duration `json:"duration"`
	// Errors holds the resolved message of every field, empty when clear.
	Errors map[string]string `json:"errors"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the edit and must not edit the form.
type LifecycleHooks struct {
	OnEdit    func(*EditEvent)
	OnIgnored func(*EditEvent)
	OnSettle  func(*SettleEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEdit:    chain(h.OnEdit, other.OnEdit),
		OnIgnored: chain(h.OnIgnored, other.OnIgnored),
		OnSettle:  chain(h.OnSettle, other.OnSettle),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
