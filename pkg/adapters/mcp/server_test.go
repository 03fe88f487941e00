package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/dsl"
	"github.com/aretw0/sform/pkg/redact"
)

func newServer(t *testing.T) (*Server, *sform.Form[string, string]) {
	t.Helper()
	b := dsl.New[string, string]("signup")
	b.Field("name").
		Initial("text").
		Label("Name").
		Constrain(func(v string) string { return strings.Replace(v, "i", "", 1) }).
		Message(func(v string) bool { return strings.Contains(v, "a") }, "Must not contain the letter 'a'")
	b.Field("nick").
		Info(func(v string) bool { return v == "" }, "Optional")
	f := sform.MustNew(b.MustBuild())
	return NewServer(f, WithName("signup")), f
}

func TestListFields(t *testing.T) {
	s, _ := newServer(t)

	res, err := s.handleListFields(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "signup", res.Form)
	assert.Equal(t, 0, res.Version)
	assert.True(t, res.Valid)
	require.Len(t, res.Fields, 2)
	assert.Equal(t, "name", res.Fields[0].ID)
	assert.Equal(t, "Name", res.Fields[0].Props["label"])
}

func TestApplyEdit(t *testing.T) {
	s, f := newServer(t)

	res, err := s.handleApplyEdit(context.Background(), mcp.CallToolRequest{}, EditArgs{Field: "name", Value: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, "Mara", res.Field.Value)
	assert.Equal(t, "Must not contain the letter 'a'", res.Field.Error)
	assert.Equal(t, "error", res.Field.Severity)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"name", "nick"}, res.Changed)
	assert.Equal(t, "Mara", f.Values()["name"])

	nick, err := s.handleBindField(context.Background(), mcp.CallToolRequest{}, FieldArgs{Field: "nick"})
	require.NoError(t, err)
	assert.Equal(t, "Optional", nick.Error)
	assert.Equal(t, string(domain.SeverityInfo), nick.Severity)

	values, err := s.handleGetValues(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Mara", "nick": ""}, values.Values)
}

func TestApplyEdit_Errors(t *testing.T) {
	s, f := newServer(t)

	_, err := s.handleApplyEdit(context.Background(), mcp.CallToolRequest{}, EditArgs{Field: "ghost", Value: "x"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = s.handleApplyEdit(context.Background(), mcp.CallToolRequest{}, EditArgs{Field: "name", Value: "\xff"})
	assert.Error(t, err)

	_, err = s.handleBindField(context.Background(), mcp.CallToolRequest{}, FieldArgs{Field: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	assert.Equal(t, 0, f.Snapshot().Version())
}

func TestStructuredHandler(t *testing.T) {
	s, _ := newServer(t)
	handler := mcp.NewStructuredToolHandler(s.handleApplyEdit)

	req := mcp.CallToolRequest{}
	req.Params.Name = "apply_edit"
	req.Params.Arguments = map[string]any{"field": "name", "value": "Iris"}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	res, ok := result.StructuredContent.(EditResult)
	require.True(t, ok)
	assert.Equal(t, "Irs", res.Field.Value)

	req.Params.Arguments = map[string]any{"field": "ghost", "value": "x"}
	result, err = handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFormResource(t *testing.T) {
	s, _ := newServer(t)

	s.mu.Lock()
	res := s.formResult()
	s.mu.Unlock()

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"form":"signup"`)
	assert.Contains(t, string(data), `"id":"nick"`)
	assert.NotNil(t, s.MCPServer())
}

func TestRedactor(t *testing.T) {
	b := dsl.New[string, string]("login")
	b.Field("user")
	b.Field("password").Prop(redact.SecretProp, true)
	f := sform.MustNew(b.MustBuild())
	s := NewServer(f, WithRedactor(redact.MustNew()))

	res, err := s.handleApplyEdit(context.Background(), mcp.CallToolRequest{}, EditArgs{Field: "password", Value: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, redact.Mask, res.Field.Value)

	values, err := s.handleGetValues(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user": "", "password": redact.Mask}, values.Values)

	bound, err := s.handleBindField(context.Background(), mcp.CallToolRequest{}, FieldArgs{Field: "password"})
	require.NoError(t, err)
	assert.Equal(t, redact.Mask, bound.Value)

	assert.Equal(t, "hunter2", f.Values()["password"])
}
