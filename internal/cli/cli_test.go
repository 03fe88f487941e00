package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileForm = `name: profile
fields:
  name:
    initial: ""
    messages:
      - when: {empty: true}
        message: "Name is required"
  age:
    type: int
    initial: 30
`

func writeForm(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadForm(t *testing.T) {
	form, def, err := LoadForm(FormOptions{Path: writeForm(t, "profile.yaml", profileForm)})
	require.NoError(t, err)

	assert.Equal(t, "profile", def.Config.Name)
	assert.Equal(t, []string{"age", "name"}, form.Keys())
	assert.True(t, form.Valid())
}

func TestLoadForm_NameFromFile(t *testing.T) {
	_, def, err := LoadForm(FormOptions{Path: writeForm(t, "unnamed.yaml", "fields:\n  a: {}\n")})
	require.NoError(t, err)
	assert.Equal(t, "unnamed", def.Config.Name)
}

func TestLoadForm_Hooks(t *testing.T) {
	var settled []string
	form, _, err := LoadForm(FormOptions{
		Path: writeForm(t, "profile.yaml", profileForm),
		Hooks: []domain.LifecycleHooks{{
			OnSettle: func(e *domain.SettleEvent) { settled = append(settled, e.Field) },
		}},
	})
	require.NoError(t, err)

	require.NoError(t, form.ApplyEdit("name", "Ada"))
	assert.Equal(t, []string{"name"}, settled)
}

func TestLoadForm_Missing(t *testing.T) {
	_, _, err := LoadForm(FormOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEdit_Markdown(t *testing.T) {
	var out bytes.Buffer
	err := Edit(EditOptions{
		Path:   writeForm(t, "profile.yaml", profileForm),
		Set:    []string{"name=Ada"},
		Output: &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "## profile")
	assert.Contains(t, out.String(), "| name * | `Ada` |  |")
	assert.Contains(t, out.String(), "| age | `30` |  |")
	assert.Contains(t, out.String(), "_version 1, valid_")
}

func TestEdit_JSON(t *testing.T) {
	var out bytes.Buffer
	err := Edit(EditOptions{
		Path:   writeForm(t, "profile.yaml", profileForm),
		Set:    []string{"name=Ada", "age=41"},
		JSON:   true,
		Output: &out,
	})
	require.NoError(t, err)

	var report struct {
		Version int            `json:"version"`
		Valid   bool           `json:"valid"`
		Changed []string       `json:"changed"`
		Values  map[string]any `json:"values"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Version)
	assert.True(t, report.Valid)
	assert.Equal(t, []string{"age", "name"}, report.Changed)
	assert.Equal(t, map[string]any{"name": "Ada", "age": float64(41)}, report.Values)
}

func TestEdit_InvalidValuesOmitTyped(t *testing.T) {
	var out bytes.Buffer
	err := Edit(EditOptions{
		Path:   writeForm(t, "profile.yaml", profileForm),
		Set:    []string{"name=Ada", "age=old"},
		JSON:   true,
		Output: &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Must be a valid int")
	assert.NotContains(t, out.String(), `"values"`)
}

func TestEdit_Strict(t *testing.T) {
	var out bytes.Buffer
	err := Edit(EditOptions{
		Path:   writeForm(t, "profile.yaml", profileForm),
		Set:    []string{"name="},
		Strict: true,
		Output: &out,
	})
	assert.ErrorIs(t, err, ErrFormInvalid)
	assert.Contains(t, out.String(), "Name is required")
}

func TestEdit_BadAssignments(t *testing.T) {
	path := writeForm(t, "profile.yaml", profileForm)
	tests := []struct {
		name   string
		set    string
		target error
		msg    string
	}{
		{name: "unknown field", set: "ghost=1", target: domain.ErrUnknownField},
		{name: "no equals", set: "name", msg: "expected id=value"},
		{name: "command", set: ":show", msg: "expected id=value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Edit(EditOptions{Path: path, Set: []string{tt.set}, Output: &bytes.Buffer{}})
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Validate(writeForm(t, "profile.yaml", profileForm), &out))
	assert.Equal(t,
		"✓ Form 'profile' is valid: 2 field(s), 0 whole-form constraint(s), 0 whole-form message rule(s).\n",
		out.String())
}

func TestValidate_Problems(t *testing.T) {
	broken := `fields:
  name:
    constraints:
      - shout: true
  age:
    type: money
`
	var out bytes.Buffer
	err := Validate(writeForm(t, "broken.yaml", broken), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrUnknownRule)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "✗ "), line)
	}
}

func TestGraph(t *testing.T) {
	path := writeForm(t, "profile.yaml", profileForm)

	var plain bytes.Buffer
	require.NoError(t, Graph(path, nil, &plain))
	assert.Contains(t, plain.String(), `form(("profile"))`)
	assert.NotContains(t, plain.String(), "classDef")

	var overlay bytes.Buffer
	require.NoError(t, Graph(path, []string{"name="}, &overlay))
	assert.Contains(t, overlay.String(), "class f_name invalid;")
	assert.Contains(t, overlay.String(), "class f_name edited;")
}

func TestRunSession_Headless(t *testing.T) {
	var out bytes.Buffer
	err := RunSession(RunOptions{
		Path:     writeForm(t, "profile.yaml", profileForm),
		Headless: true,
		Strict:   true,
		Input:    strings.NewReader("name=Ada\n:q\n"),
		Output:   &out,
	})
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "|___/", "headless runs print no banner")
	assert.Contains(t, out.String(), "| name * | `Ada` |  |")
}

func TestRunSession_StrictInvalid(t *testing.T) {
	err := RunSession(RunOptions{
		Path:     writeForm(t, "profile.yaml", profileForm),
		Headless: true,
		Strict:   true,
		Input:    strings.NewReader("name=\n"),
		Output:   &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, ErrFormInvalid)
}

func TestRunSession_JSON(t *testing.T) {
	var out bytes.Buffer
	err := RunSession(RunOptions{
		Path:   writeForm(t, "profile.yaml", profileForm),
		JSON:   true,
		Input:  strings.NewReader(`{"field":"name","value":"Ada"}` + "\n"),
		Output: &out,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"changed":["name"]`)
}

func TestExecute_WatchConflicts(t *testing.T) {
	err := Execute(RunOptions{Path: "form.yaml", Watch: true, Headless: true})
	assert.ErrorContains(t, err, "--watch")
}

func TestRestoreValues(t *testing.T) {
	form, _, err := LoadForm(FormOptions{Path: writeForm(t, "profile.yaml", profileForm)})
	require.NoError(t, err)

	n := restoreValues(form, domain.Values[string, string]{
		"name":  "Ada",
		"age":   "30", // already current
		"ghost": "x",  // dropped from the form
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, "Ada", form.Values()["name"])
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(fmt.Errorf("input error: %w", io.EOF)))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.ErrorIs(t, handleExecutionError(os.ErrClosed), os.ErrClosed)
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(MCPOptions{Path: "form.yaml", Transport: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown transport")
}

const loginForm = `name: login
fields:
  user: {}
  password:
    props:
      secret: true
  apiToken: {}
`

func TestEdit_MasksSecrets(t *testing.T) {
	var out bytes.Buffer
	err := Edit(EditOptions{
		Path:   writeForm(t, "login.yaml", loginForm),
		Set:    []string{"user=mara", "password=hunter2", "apiToken=abc123"},
		Mask:   []string{`(?i)token$`},
		JSON:   true,
		Output: &out,
	})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "hunter2")
	assert.NotContains(t, out.String(), "abc123")
	assert.Contains(t, out.String(), `"mara"`)
}

func TestEdit_InvalidMask(t *testing.T) {
	err := Edit(EditOptions{Path: writeForm(t, "login.yaml", loginForm), Mask: []string{"(["}})
	assert.ErrorContains(t, err, "invalid --mask")
}
