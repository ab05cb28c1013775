package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rigflow/core/message"
)

type echoTool struct {
	name string
}

func (t *echoTool) Name() string { return t.name }

func (t *echoTool) Definition(ctx context.Context, prompt string) (message.ToolDefinition, error) {
	return message.ToolDefinition{
		Name:        t.name,
		Description: "echoes its input",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}, nil
}

func (t *echoTool) Call(ctx context.Context, argsJSON string) (string, error) {
	return "echo:" + argsJSON, nil
}

type failingTool struct{ name string }

func (t *failingTool) Name() string { return t.name }
func (t *failingTool) Definition(ctx context.Context, prompt string) (message.ToolDefinition, error) {
	return message.ToolDefinition{Name: t.name}, nil
}
func (t *failingTool) Call(ctx context.Context, argsJSON string) (string, error) {
	return "", errBoom
}

var errBoom = errorString("boom")

type errorString string

func (e errorString) Error() string { return string(e) }

func TestSet_CallDispatchesToRegisteredTool(t *testing.T) {
	s := NewSet()
	s.AddTool(&echoTool{name: "echo"})

	out, err := s.Call(context.Background(), "echo", `{"x":1}`)
	require.NoError(t, err)
	require.Equal(t, `echo:{"x":1}`, out)
}

func TestSet_CallUnknownToolReturnsNotFound(t *testing.T) {
	s := NewSet()
	_, err := s.Call(context.Background(), "missing", "{}")
	require.Error(t, err)
	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, KindNotFound, toolErr.Kind)
}

func TestSet_CallWrapsToolError(t *testing.T) {
	s := NewSet()
	s.AddTool(&failingTool{name: "boom"})

	_, err := s.Call(context.Background(), "boom", "{}")
	require.Error(t, err)
	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, KindCallError, toolErr.Kind)
	require.ErrorIs(t, err, errBoom)
}

func TestSet_AddToolsMergesAndOverrides(t *testing.T) {
	base := NewSet()
	base.AddTool(&echoTool{name: "a"})

	extra := NewSet()
	extra.AddTool(&echoTool{name: "b"})

	base.AddTools(extra)
	require.True(t, base.Contains("a"))
	require.True(t, base.Contains("b"))
	require.Equal(t, 2, base.Len())
}

func TestSet_DefinitionsAndSchemas(t *testing.T) {
	s := NewSet()
	s.AddTool(&echoTool{name: "echo"})

	defs, err := s.Definitions(context.Background(), "some prompt")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "echo", defs[0].Name)

	schemas, err := s.Schemas(context.Background())
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	require.Equal(t, "echo", schemas[0].Name)
}

func TestRedactArgs_OverwritesSensitiveKeys(t *testing.T) {
	out := redactArgs(`{"query":"weather","api_key":"sk-live-123"}`)
	require.Contains(t, out, `"query":"weather"`)
	require.Contains(t, out, `"api_key":"[redacted]"`)
	require.NotContains(t, out, "sk-live-123")
}

func TestRedactArgs_PassesThroughWhenNoSensitiveKeys(t *testing.T) {
	out := redactArgs(`{"query":"weather"}`)
	require.JSONEq(t, `{"query":"weather"}`, out)
}

func TestRedactArgs_PassesThroughMalformedArgs(t *testing.T) {
	out := redactArgs("not json")
	require.Equal(t, "not json", out)
}

func TestSet_ContainsAndGet(t *testing.T) {
	s := NewSet()
	require.False(t, s.Contains("echo"))

	s.AddTool(&echoTool{name: "echo"})
	require.True(t, s.Contains("echo"))

	typ, ok := s.Get("echo")
	require.True(t, ok)
	require.False(t, typ.IsEmbedding())
	require.Equal(t, "echo", typ.Tool().Name())
}
