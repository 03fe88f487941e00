package sform

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/sform/internal/logging"
	"github.com/aretw0/sform/internal/runtime"
	"github.com/aretw0/sform/pkg/domain"
)

// Form is the high-level entry point for the sform library.
// It wraps the internal runtime and provides a simplified API for consumers.
//
// A Form is owned by a single edit stream. Adapters serving several clients must
// serialize calls themselves.
type Form[K ~string, V any] struct {
	runtime *runtime.Engine[K, V]
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Form.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	skipValidation bool
}

// WithLogger sets a custom structured logger for the form.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. It may be given several times;
// hooks run in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithoutValidation skips the configuration-time checks of New.
func WithoutValidation() Option {
	return func(o *options) {
		o.skipValidation = true
	}
}

// New validates cfg and initializes a Form positioned on its initial values.
func New[K ~string, V any](cfg domain.FormConfig[K, V], opts ...Option) (*Form[K, V], error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if !o.skipValidation {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if cfg.Name != "" {
		o.logger = o.logger.With("form", cfg.Name)
	}

	return &Form[K, V]{
		runtime: runtime.NewEngine(cfg,
			runtime.WithLogger(o.logger),
			runtime.WithLifecycleHooks(o.hooks),
		),
		logger: o.logger,
		Name:   cfg.Name,
	}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[K ~string, V any](cfg domain.FormConfig[K, V], opts ...Option) *Form[K, V] {
	f, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// ApplyEdit applies a raw edit to field id and settles the whole form.
// Edits to an empty or undeclared id are ignored.
func (f *Form[K, V]) ApplyEdit(id K, raw V) error {
	return f.runtime.ApplyEdit(id, raw)
}

// Field returns the binding of field id, ready to be spread onto an input renderer.
func (f *Form[K, V]) Field(id K) domain.Binding[K, V] {
	return f.runtime.Bind(id)
}

// Fields returns the binding of every field, in lexical order of their ids.
func (f *Form[K, V]) Fields() []domain.Binding[K, V] {
	keys := f.Keys()
	out := make([]domain.Binding[K, V], 0, len(keys))
	for _, k := range keys {
		out = append(out, f.runtime.Bind(k))
	}
	return out
}

// Keys returns the declared field ids in lexical order.
func (f *Form[K, V]) Keys() []K {
	return f.runtime.Snapshot().Keys()
}

// Has reports whether id is a declared field.
func (f *Form[K, V]) Has(id K) bool {
	return f.runtime.Snapshot().Has(id)
}

// Snapshot returns the current immutable snapshot.
func (f *Form[K, V]) Snapshot() *domain.Snapshot[K, V] {
	return f.runtime.Snapshot()
}

// Values returns a copy of the current values.
func (f *Form[K, V]) Values() domain.Values[K, V] {
	return f.runtime.Snapshot().Values()
}

// Messages returns the per-field message of every field.
func (f *Form[K, V]) Messages() map[K]string {
	return f.runtime.Snapshot().FieldMessages()
}

// GlobalMessages returns the form-wide message of every field.
func (f *Form[K, V]) GlobalMessages() map[K]string {
	return f.runtime.Snapshot().GlobalMessages()
}

// Errors returns the message shown for every field, per-field messages first.
func (f *Form[K, V]) Errors() map[K]string {
	return f.runtime.Snapshot().Errors()
}

// Valid reports whether no field currently shows an error-severity message.
func (f *Form[K, V]) Valid() bool {
	return f.runtime.Snapshot().Valid()
}

// Config returns the configuration the form was built from.
func (f *Form[K, V]) Config() domain.FormConfig[K, V] {
	return f.runtime.Config()
}
