package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandoffTool_CallDispatchesToTargetAgentRunner(t *testing.T) {
	specialist := NewBuilder[string](stubModel{}).Preamble("specialist").Build()
	generalist := NewBuilder[string](stubModel{}).Preamble("generalist").Build()

	var calledWith string
	run := func(ctx context.Context, target Agent[string], prompt string) (string, error) {
		calledWith = target.Preamble
		return "handled: " + prompt, nil
	}

	h := NewHandoffTool("handoff", "hand off to a specialist", map[string]Agent[string]{
		"specialist": specialist,
		"generalist": generalist,
	}, run)

	args, err := json.Marshal(HandoffInput{TargetAgent: "specialist", Prompt: "review this code"})
	require.NoError(t, err)

	out, err := h.Call(context.Background(), string(args))
	require.NoError(t, err)
	require.Equal(t, "handled: review this code", out)
	require.Equal(t, "specialist", calledWith)
}

func TestHandoffTool_CallRejectsUnknownTarget(t *testing.T) {
	h := NewHandoffTool("handoff", "", map[string]Agent[string]{}, func(ctx context.Context, target Agent[string], prompt string) (string, error) {
		return "", nil
	})

	args, err := json.Marshal(HandoffInput{TargetAgent: "ghost", Prompt: "x"})
	require.NoError(t, err)

	_, err = h.Call(context.Background(), string(args))
	require.Error(t, err)
}

func TestHandoffTool_DefinitionListsTargetAgentsAsEnum(t *testing.T) {
	h := NewHandoffTool("handoff", "desc", map[string]Agent[string]{
		"a": NewBuilder[string](stubModel{}).Build(),
	}, func(ctx context.Context, target Agent[string], prompt string) (string, error) { return "", nil })

	def, err := h.Definition(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "handoff", def.Name)
	require.Contains(t, string(def.Parameters), `"a"`)
}
