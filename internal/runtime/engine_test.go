package runtime_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sform/internal/runtime"
	"github.com/aretw0/sform/pkg/domain"
)

type field string

const (
	name     field = "name"
	lastname field = "lastname"
)

var upperRe = regexp.MustCompile(`[A-Z]`)

const needsUpper = "At least one field must have an uppercase letter"

// referenceConfig mirrors the signup example: two fields with removal constraints and
// a form-wide uppercase rule.
func referenceConfig() domain.FormConfig[field, string] {
	return domain.FormConfig[field, string]{
		Name: "signup",
		Fields: map[field]domain.FieldConfig[string]{
			name: {
				Initial:     "text",
				Constraints: []domain.Constraint[string]{func(v string) string { return strings.Replace(v, "i", "", 1) }},
				Messages: []domain.MessageRule[string]{{
					Test:    func(v string) bool { return strings.Contains(v, "a") },
					Message: "Must not contain the letter 'a'",
				}},
				Props: map[string]any{"label": "Name"},
			},
			lastname: {
				Initial:     "text2",
				Constraints: []domain.Constraint[string]{func(v string) string { return strings.Replace(v, "h", "", 1) }},
				Messages: []domain.MessageRule[string]{{
					Test:    func(v string) bool { return strings.Contains(v, "e") },
					Message: "Must contain 'e'",
				}},
			},
		},
		GlobalConstraints: []domain.GlobalConstraint[field, string]{
			func(v domain.Values[field, string]) domain.Values[field, string] {
				v[lastname] = strings.ToUpper(v[lastname])
				return v
			},
		},
		GlobalMessages: []domain.GlobalMessageRule[field, string]{{
			Test: func(v domain.Values[field, string]) bool {
				return !(upperRe.MatchString(v[name]) || upperRe.MatchString(v[lastname]))
			},
			Message: map[field]string{name: needsUpper, lastname: needsUpper},
		}},
	}
}

func TestEngine_InitialState(t *testing.T) {
	eng := runtime.NewEngine(referenceConfig())
	s := eng.Snapshot()

	assert.Equal(t, 0, s.Version())
	assert.Equal(t, domain.Values[field, string]{name: "text", lastname: "text2"}, s.Values())
	assert.Equal(t, map[field]string{name: "", lastname: ""}, s.FieldMessages())
	assert.Equal(t, map[field]string{name: "", lastname: ""}, s.GlobalMessages())
}

func TestEngine_ReferenceScenario(t *testing.T) {
	t.Run("Edit Name", func(t *testing.T) {
		eng := runtime.NewEngine(referenceConfig())
		require.NoError(t, eng.ApplyEdit(name, "Maria"))

		s := eng.Snapshot()
		v, _ := s.Value(name)
		assert.Equal(t, "Mara", v)
		v, _ = s.Value(lastname)
		assert.Equal(t, "TEXT2", v, "form-wide constraint rewrites the non-edited field")

		assert.Equal(t, "Must not contain the letter 'a'", s.FieldMessage(name).Text)
		assert.True(t, s.GlobalMessage(name).IsZero())
		assert.True(t, s.GlobalMessage(lastname).IsZero())

		b := eng.Bind(name)
		assert.Equal(t, "Mara", b.Value)
		assert.Equal(t, "Must not contain the letter 'a'", b.Error)
		assert.Equal(t, domain.SeverityError, b.Severity)
		assert.Equal(t, "Name", b.Props["label"])
	})

	t.Run("Edit Lastname", func(t *testing.T) {
		eng := runtime.NewEngine(referenceConfig())
		require.NoError(t, eng.ApplyEdit(lastname, "yes"))

		b := eng.Bind(lastname)
		assert.Equal(t, "YES", b.Value)
		// The per-field rule sees the value after the form-wide constraint ran.
		assert.Empty(t, b.Error)
		assert.Empty(t, eng.Bind(name).Error)
	})
}

func TestEngine_GlobalMessagesRaiseAndClear(t *testing.T) {
	eng := runtime.NewEngine(referenceConfig())

	require.NoError(t, eng.ApplyEdit(lastname, "123"))
	assert.Equal(t, needsUpper, eng.Bind(name).Error)
	assert.Equal(t, needsUpper, eng.Bind(lastname).Error)
	assert.False(t, eng.Snapshot().Valid())

	require.NoError(t, eng.ApplyEdit(name, "Ab"))
	assert.Equal(t, map[field]string{name: "", lastname: ""}, eng.Snapshot().GlobalMessages())
	assert.Empty(t, eng.Bind(lastname).Error)
}

func TestEngine_PerFieldMessageTakesPrecedence(t *testing.T) {
	eng := runtime.NewEngine(referenceConfig())

	// "bar" keeps its 'a' and has no uppercase; lastname "123" has none either.
	require.NoError(t, eng.ApplyEdit(lastname, "123"))
	require.NoError(t, eng.ApplyEdit(name, "bar"))

	s := eng.Snapshot()
	assert.Equal(t, needsUpper, s.GlobalMessage(name).Text)
	assert.Equal(t, "Must not contain the letter 'a'", s.FieldMessage(name).Text)
	assert.Equal(t, "Must not contain the letter 'a'", eng.Bind(name).Error)
	assert.Equal(t, needsUpper, eng.Bind(lastname).Error)
}

func TestEngine_ConstraintChainOrder(t *testing.T) {
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{
			name: {Constraints: []domain.Constraint[string]{
				func(v string) string { return v + "f" },
				func(v string) string { return v + "g" },
			}},
		},
	}
	eng := runtime.NewEngine(cfg)
	require.NoError(t, eng.ApplyEdit(name, "raw"))
	assert.Equal(t, "rawfg", eng.Bind(name).Value)
}

func TestEngine_NoConstraintsPassesRawThrough(t *testing.T) {
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{name: {Initial: "a"}},
	}
	eng := runtime.NewEngine(cfg)
	require.NoError(t, eng.ApplyEdit(name, "b"))
	assert.Equal(t, "b", eng.Bind(name).Value)
}

func TestEngine_GlobalConstraintChain(t *testing.T) {
	var seen []string
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{name: {}, lastname: {Initial: "x"}},
		GlobalConstraints: []domain.GlobalConstraint[field, string]{
			func(v domain.Values[field, string]) domain.Values[field, string] {
				seen = append(seen, v[lastname])
				v[lastname] = v[name] + "1"
				return v
			},
			func(v domain.Values[field, string]) domain.Values[field, string] {
				seen = append(seen, v[lastname])
				v[lastname] += "2"
				return v
			},
		},
	}
	eng := runtime.NewEngine(cfg)
	require.NoError(t, eng.ApplyEdit(name, "n"))

	assert.Equal(t, []string{"x", "n1"}, seen)
	assert.Equal(t, "n12", eng.Bind(lastname).Value)
}

func TestEngine_GlobalMessageRulesMergeLeftToRight(t *testing.T) {
	var tested []string
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{name: {}, lastname: {}},
		GlobalMessages: []domain.GlobalMessageRule[field, string]{
			{
				Test: func(v domain.Values[field, string]) bool {
					tested = append(tested, v[name])
					return true
				},
				Message: map[field]string{name: "first", lastname: "first"},
			},
			{
				Test: func(v domain.Values[field, string]) bool {
					tested = append(tested, v[name])
					return false
				},
				Message: map[field]string{name: "skipped"},
			},
			{
				Test: func(v domain.Values[field, string]) bool {
					tested = append(tested, v[name])
					return true
				},
				Message:  map[field]string{lastname: "third"},
				Severity: domain.SeverityWarning,
			},
		},
	}
	eng := runtime.NewEngine(cfg)
	require.NoError(t, eng.ApplyEdit(name, "v"))

	assert.Equal(t, []string{"v", "v", "v"}, tested, "every rule sees the same values")
	s := eng.Snapshot()
	assert.Equal(t, "first", s.GlobalMessage(name).Text)
	assert.Equal(t, domain.Message{Text: "third", Severity: domain.SeverityWarning}, s.GlobalMessage(lastname))
}

func TestEngine_FieldMessageRulesLastTruthyWins(t *testing.T) {
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{
			name: {Messages: []domain.MessageRule[string]{
				{Test: func(string) bool { return true }, Message: "one"},
				{Test: func(string) bool { return true }, Message: "two", Severity: domain.SeverityInfo},
				{Test: func(string) bool { return false }, Message: "three"},
			}},
			lastname: {},
		},
	}
	eng := runtime.NewEngine(cfg)
	require.NoError(t, eng.ApplyEdit(lastname, "x"))

	// Rules of every field are re-evaluated, not only the edited one.
	assert.Equal(t, domain.Message{Text: "two", Severity: domain.SeverityInfo}, eng.Snapshot().FieldMessage(name))
}

func TestEngine_FixedKeySet(t *testing.T) {
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{name: {Initial: "a"}, lastname: {Initial: "b"}},
		GlobalConstraints: []domain.GlobalConstraint[field, string]{
			func(v domain.Values[field, string]) domain.Values[field, string] {
				return domain.Values[field, string]{name: v[name] + "!", "ghost": "boo"}
			},
		},
		GlobalMessages: []domain.GlobalMessageRule[field, string]{{
			Test:    func(domain.Values[field, string]) bool { return true },
			Message: map[field]string{"ghost": "boo", name: "hi"},
		}},
	}
	eng := runtime.NewEngine(cfg)

	for _, raw := range []string{"x", "y", "z"} {
		require.NoError(t, eng.ApplyEdit(name, raw))
		require.NoError(t, eng.ApplyEdit("ghost", raw))

		s := eng.Snapshot()
		assert.Equal(t, []field{lastname, name}, s.Keys())
		assert.Len(t, s.FieldMessages(), 2)
		assert.Len(t, s.GlobalMessages(), 2)
		assert.False(t, s.Has("ghost"))
	}

	assert.Equal(t, "z!", eng.Bind(name).Value)
	assert.Equal(t, "b", eng.Bind(lastname).Value, "keys dropped by a constraint keep their value")
	assert.Equal(t, "hi", eng.Bind(name).Error)
}

func TestEngine_PreviousSnapshotIsImmutable(t *testing.T) {
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{name: {Initial: "a"}, lastname: {Initial: "b"}},
		GlobalConstraints: []domain.GlobalConstraint[field, string]{
			func(v domain.Values[field, string]) domain.Values[field, string] {
				v[lastname] = "mutated"
				return v
			},
		},
	}
	eng := runtime.NewEngine(cfg)
	before := eng.Snapshot()

	require.NoError(t, eng.ApplyEdit(name, "x"))

	v, _ := before.Value(lastname)
	assert.Equal(t, "b", v)
	assert.NotSame(t, before, eng.Snapshot())
}

func TestEngine_IdempotentNoOpEdit(t *testing.T) {
	cfg := referenceConfig()
	cfg.Fields["plain"] = domain.FieldConfig[string]{Initial: "p"}
	eng := runtime.NewEngine(cfg)
	require.NoError(t, eng.ApplyEdit(name, "Maria"))

	before := eng.Snapshot()
	require.NoError(t, eng.ApplyEdit("plain", "p"))
	after := eng.Snapshot()

	assert.Equal(t, before.Values(), after.Values())
	assert.Equal(t, before.FieldMessages(), after.FieldMessages())
	assert.Equal(t, before.GlobalMessages(), after.GlobalMessages())
	assert.Nil(t, domain.Diff(before, after))
}

func TestEngine_IgnoredEdits(t *testing.T) {
	var ignored []string
	eng := runtime.NewEngine(referenceConfig(), runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnIgnored: func(e *domain.EditEvent) { ignored = append(ignored, e.Field) },
	}))
	before := eng.Snapshot()

	assert.NoError(t, eng.ApplyEdit("", "x"))
	assert.NoError(t, eng.ApplyEdit("age", "x"))

	assert.Same(t, before, eng.Snapshot())
	assert.Equal(t, []string{"", "age"}, ignored)
}

func TestEngine_NilLoggerKeepsDiscardDefault(t *testing.T) {
	eng := runtime.NewEngine(referenceConfig(), runtime.WithLogger(nil))

	assert.NotPanics(t, func() {
		assert.NoError(t, eng.ApplyEdit("age", "x"))
		assert.NoError(t, eng.ApplyEdit("name", "Maria"))
	})
	assert.Equal(t, "Mara", eng.Snapshot().Values()["name"])
}

func TestEngine_ReentrantEditRejected(t *testing.T) {
	var eng *runtime.Engine[field, string]
	var reentrantErr error

	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{
			name: {Constraints: []domain.Constraint[string]{func(v string) string {
				reentrantErr = eng.ApplyEdit(lastname, "sneaky")
				return v
			}}},
			lastname: {Initial: "b"},
		},
	}
	eng = runtime.NewEngine(cfg)

	require.NoError(t, eng.ApplyEdit(name, "a"))
	assert.ErrorIs(t, reentrantErr, domain.ErrReentrantEdit)
	assert.Equal(t, "b", eng.Bind(lastname).Value)
}

func TestEngine_PanickingRuleLeavesStateUntouched(t *testing.T) {
	cfg := domain.FormConfig[field, string]{
		Fields: map[field]domain.FieldConfig[string]{
			name: {
				Initial: "a",
				Messages: []domain.MessageRule[string]{{
					Test: func(v string) bool {
						if v == "boom" {
							panic("rule exploded")
						}
						return false
					},
					Message: "never",
				}},
			},
		},
	}
	eng := runtime.NewEngine(cfg)
	before := eng.Snapshot()

	assert.PanicsWithValue(t, "rule exploded", func() {
		_ = eng.ApplyEdit(name, "boom")
	})
	assert.Same(t, before, eng.Snapshot())

	// The engine is usable again once the panic has unwound.
	require.NoError(t, eng.ApplyEdit(name, "ok"))
	assert.Equal(t, "ok", eng.Bind(name).Value)
}

func TestEngine_Hooks(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var edits []*domain.EditEvent
	var settles []*domain.SettleEvent

	eng := runtime.NewEngine(referenceConfig(),
		runtime.WithClock(func() time.Time { return clock }),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnEdit:   func(e *domain.EditEvent) { edits = append(edits, e) },
			OnSettle: func(e *domain.SettleEvent) { settles = append(settles, e) },
		}),
	)

	require.NoError(t, eng.ApplyEdit(name, "Maria"))

	require.Len(t, edits, 1)
	assert.Equal(t, domain.EventEditApplied, edits[0].Type)
	assert.Equal(t, "Maria", edits[0].Raw)
	assert.Equal(t, "signup", edits[0].Form)

	require.Len(t, settles, 1)
	ev := settles[0]
	assert.Equal(t, domain.EventSettled, ev.Type)
	assert.Equal(t, 1, ev.Version)
	assert.Equal(t, []string{"lastname", "name"}, ev.Changed)
	assert.Equal(t, clock, ev.Timestamp)
	assert.Zero(t, ev.Duration)
	assert.Equal(t, map[string]string{"name": "Must not contain the letter 'a'", "lastname": ""}, ev.Errors)
}

func TestEngine_BindOnChange(t *testing.T) {
	eng := runtime.NewEngine(referenceConfig())

	b := eng.Bind(name)
	require.NoError(t, b.OnChange("Maria"))
	assert.Equal(t, "Mara", eng.Bind(name).Value)

	// Props handed out are copies.
	b.Props["label"] = "changed"
	assert.Equal(t, "Name", eng.Bind(name).Props["label"])
}

func TestEngine_BindUnknownField(t *testing.T) {
	eng := runtime.NewEngine(referenceConfig())
	b := eng.Bind("age")

	assert.Equal(t, field("age"), b.ID)
	assert.Empty(t, b.Value)
	assert.Empty(t, b.Error)
	assert.NoError(t, b.OnChange("x"))
	assert.False(t, eng.Snapshot().Has("age"))
}
