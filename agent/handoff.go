package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rigflow/core/message"
)

// HandoffTool is a tool.Tool that hands the conversation to a
// different agent by name, then runs that agent's own prompt-engine
// turn and returns its final text as this tool's result — modelling a
// multi-agent handoff as nothing more than a tool call, per spec.md
// §3's Agent contract rather than a separate orchestration concept.
type HandoffTool[R any] struct {
	name        string
	description string
	agents      map[string]Agent[R]
	run         func(ctx context.Context, target Agent[R], prompt string) (string, error)
}

// HandoffInput is the JSON-Schema-shaped argument object the model
// supplies when invoking a HandoffTool.
type HandoffInput struct {
	TargetAgent string `json:"target_agent"`
	Prompt      string `json:"prompt"`
	Reason      string `json:"reason,omitempty"`
}

// NewHandoffTool constructs a HandoffTool dispatching among the named
// agents. run is invoked to actually execute the target agent's
// prompt-engine turn (typically prompt.Engine.Run bound to the target agent);
// injecting it here keeps this package free of a dependency on the
// prompt engine, avoiding an import cycle since prompt depends on
// agent, not the reverse.
func NewHandoffTool[R any](name, description string, agents map[string]Agent[R], run func(ctx context.Context, target Agent[R], prompt string) (string, error)) *HandoffTool[R] {
	return &HandoffTool[R]{name: name, description: description, agents: agents, run: run}
}

func (h *HandoffTool[R]) Name() string { return h.name }

func (h *HandoffTool[R]) Definition(ctx context.Context, prompt string) (message.ToolDefinition, error) {
	names := make([]string, 0, len(h.agents))
	for name := range h.agents {
		names = append(names, name)
	}
	schema, err := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"target_agent": map[string]any{
				"type": "string",
				"enum": names,
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "the task to hand off to the target agent",
			},
			"reason": map[string]any{
				"type": "string",
			},
		},
		"required": []string{"target_agent", "prompt"},
	})
	if err != nil {
		return message.ToolDefinition{}, err
	}
	return message.ToolDefinition{Name: h.name, Description: h.description, Parameters: schema}, nil
}

func (h *HandoffTool[R]) Call(ctx context.Context, argsJSON string) (string, error) {
	var input HandoffInput
	if err := json.Unmarshal([]byte(argsJSON), &input); err != nil {
		return "", fmt.Errorf("agent: decoding handoff arguments: %w", err)
	}

	target, ok := h.agents[input.TargetAgent]
	if !ok {
		return "", fmt.Errorf("agent: unknown handoff target %q", input.TargetAgent)
	}

	return h.run(ctx, target, input.Prompt)
}
