package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/sform/internal/presentation/graph"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func upper(v string) string { return strings.ToUpper(v) }

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		cfg      domain.FormConfig[string, string]
		contains []string
		excludes []string
	}{
		{
			name: "Form And Field Shapes",
			cfg: domain.FormConfig[string, string]{
				Name: "signup",
				Fields: map[string]domain.FieldConfig[string]{
					"name": {
						Constraints: []domain.Constraint[string]{upper},
						Messages:    []domain.MessageRule[string]{{Test: func(string) bool { return false }, Message: "x"}, {Test: func(string) bool { return false }, Message: "y"}},
					},
					"nick": {},
				},
			},
			contains: []string{
				"form((\"signup\"))",
				"f_name[/\"name <br/> 1 constraint, 2 messages\"/]",
				"f_nick[/\"nick\"/]",
				"form --> f_name",
			},
		},
		{
			name: "Unnamed Form",
			cfg: domain.FormConfig[string, string]{
				Fields: map[string]domain.FieldConfig[string]{"a": {}},
			},
			contains: []string{"form((\"form\"))"},
		},
		{
			name: "Whole Form Rules",
			cfg: domain.FormConfig[string, string]{
				Fields: map[string]domain.FieldConfig[string]{"name": {}, "last-name": {}},
				GlobalConstraints: []domain.GlobalConstraint[string, string]{
					func(v domain.Values[string, string]) domain.Values[string, string] { return v },
				},
				GlobalMessages: []domain.GlobalMessageRule[string, string]{{
					Test:    func(domain.Values[string, string]) bool { return true },
					Message: map[string]string{"name": "Say \"hi\"", "last-name": ""},
				}},
			},
			contains: []string{
				"gc1[[\"transform 1\"]]",
				"form -.-> gc1",
				"gm1{\"check 1\"}",
				"gm1 -. \"Say 'hi'\" .-> f_name",
				"gm1 -.-> f_last_name",
			},
		},
		{
			name: "No Overlay",
			cfg: domain.FormConfig[string, string]{
				Fields: map[string]domain.FieldConfig[string]{"a": {}},
			},
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.cfg, nil)
			assert.True(t, strings.HasPrefix(out, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	cfg := domain.FormConfig[string, string]{
		Fields: map[string]domain.FieldConfig[string]{"name": {}, "nick": {}},
	}
	out := graph.GenerateMermaid(cfg, &graph.Overlay{
		Invalid: []string{"name", "name"},
		Edited:  "nick",
	})

	assert.Contains(t, out, "classDef invalid")
	assert.Equal(t, 1, strings.Count(out, "class f_name invalid;"))
	assert.Contains(t, out, "class f_nick edited;")
}

func TestGenerateMermaid_Golden(t *testing.T) {
	cfg := domain.FormConfig[string, string]{
		Name: "signup",
		Fields: map[string]domain.FieldConfig[string]{
			"email": {
				Constraints: []domain.Constraint[string]{upper},
				Messages:    []domain.MessageRule[string]{{Test: func(string) bool { return false }, Message: "x"}},
			},
			"name": {},
		},
		GlobalConstraints: []domain.GlobalConstraint[string, string]{
			func(v domain.Values[string, string]) domain.Values[string, string] { return v },
		},
		GlobalMessages: []domain.GlobalMessageRule[string, string]{{
			Test:    func(domain.Values[string, string]) bool { return true },
			Message: map[string]string{"email": "Taken", "name": ""},
		}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "signup", []byte(graph.GenerateMermaid(cfg, &graph.Overlay{
		Invalid: []string{"email"},
		Edited:  "email",
	})))
}

func TestNewOverlay(t *testing.T) {
	snap := domain.NewSnapshot(3, "name",
		map[string]string{"name": "Mara", "nick": "", "mail": "x"},
		map[string]domain.Message{
			"name": {Text: "Must not contain the letter 'a'"},
			"nick": {Text: "A nickname helps", Severity: domain.SeverityWarning},
			"mail": {},
		},
		map[string]domain.Message{
			"name": {}, "nick": {},
			"mail": {Text: "Taken", Severity: domain.SeverityError},
		},
	)

	o := graph.NewOverlay(snap)
	assert.Equal(t, "name", o.Edited)
	assert.ElementsMatch(t, []string{"mail", "name"}, o.Invalid)
}
