package runtime

import (
	"log/slog"
	"maps"
	"time"

	"github.com/aretw0/sform/internal/logging"
	"github.com/aretw0/sform/pkg/domain"
)

// Engine owns the current snapshot of one form and settles edits against it.
// It is not safe for concurrent use; callers serving several edit streams must
// serialize access.
type Engine[K ~string, V any] struct {
	config   domain.FormConfig[K, V]
	keys     []K
	current  *domain.Snapshot[K, V]
	settling bool

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(o *engineOptions) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithClock overrides the time source used for event timestamps and durations.
func WithClock(now func() time.Time) EngineOption {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewEngine creates an engine positioned on the initial snapshot of cfg.
// The configuration is trusted as-is; see domain.FormConfig.Validate.
func NewEngine[K ~string, V any](cfg domain.FormConfig[K, V], opts ...EngineOption) *Engine[K, V] {
	o := engineOptions{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine[K, V]{
		config:  cfg,
		keys:    cfg.Keys(),
		current: domain.InitialSnapshot(cfg),
		logger:  o.logger,
		hooks:   o.hooks,
		now:     o.now,
	}
}

// Snapshot returns the current settled snapshot.
func (e *Engine[K, V]) Snapshot() *domain.Snapshot[K, V] {
	return e.current
}

// Config returns the configuration the engine was built from.
func (e *Engine[K, V]) Config() domain.FormConfig[K, V] {
	return e.config
}

// ApplyEdit settles a raw edit of field id.
//
// An empty or undeclared id is ignored. A rule that panics propagates the panic and
// leaves the current snapshot untouched. Rules must not edit the engine that is
// evaluating them; such an edit returns domain.ErrReentrantEdit.
func (e *Engine[K, V]) ApplyEdit(id K, raw V) error {
	if e.settling {
		return domain.ErrReentrantEdit
	}

	event := &domain.EditEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventEditApplied, Form: e.config.Name},
		Field:     string(id),
		Raw:       raw,
	}

	if id == "" || !e.config.Has(id) {
		event.Type = domain.EventEditIgnored
		e.logger.Debug("edit ignored", "field", string(id))
		if e.hooks.OnIgnored != nil {
			e.hooks.OnIgnored(event)
		}
		return nil
	}

	e.settling = true
	defer func() { e.settling = false }()

	if e.hooks.OnEdit != nil {
		e.hooks.OnEdit(event)
	}

	start := e.now()
	prev := e.current
	next := settle(e.config, e.keys, prev, id, raw)
	e.current = next
	elapsed := e.now().Sub(start)

	diff := domain.Diff(prev, next)
	changed := make([]string, 0)
	for _, k := range diff.Changed() {
		changed = append(changed, string(k))
	}

	e.logger.Debug("edit settled",
		"field", string(id),
		"version", next.Version(),
		"changed", changed,
		"duration", elapsed,
	)

	if e.hooks.OnSettle != nil {
		errs := make(map[string]string, len(e.keys))
		for k, text := range next.Errors() {
			errs[string(k)] = text
		}
		e.hooks.OnSettle(&domain.SettleEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventSettled, Form: e.config.Name},
			Field:     string(id),
			Version:   next.Version(),
			Changed:   changed,
			Duration:  elapsed,
			Errors:    errs,
		})
	}
	return nil
}

// Bind projects the current state of field id. OnChange is bound to ApplyEdit.
func (e *Engine[K, V]) Bind(id K) domain.Binding[K, V] {
	s := e.current
	value, _ := s.Value(id)
	msg := s.Error(id)

	b := domain.Binding[K, V]{
		ID:       id,
		Value:    value,
		Props:    maps.Clone(e.config.Fields[id].Props),
		Error:    msg.Text,
		OnChange: func(raw V) error { return e.ApplyEdit(id, raw) },
	}
	if !msg.IsZero() {
		b.Severity = msg.Severity.OrDefault()
	}
	return b
}
