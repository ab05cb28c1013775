package pipeline

import (
	"context"

	"github.com/rigflow/core/agent"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/prompt"
)

// DefaultMaxDepth bounds a Prompt op's underlying engine run when the
// caller has no sharper limit in mind.
const DefaultMaxDepth = 10

// Prompt runs ag through the prompt engine for a single input string,
// returning its final assistant text. It is the pipeline package's
// bridge into the multi-turn engine, letting a full agent (with its
// tools, dynamic context, and dynamic tools) act as one stage of a
// larger composition.
func Prompt[R any](engine *prompt.Engine[R], ag agent.Agent[R], maxDepth int) Op[string, string] {
	return OpFunc[string, string](func(ctx context.Context, input string) (string, error) {
		result, err := engine.Run(ctx, ag, message.NewUserMessage(message.UserText(input)), nil, maxDepth, nil, nil)
		if err != nil {
			return "", err
		}
		return result.Text, nil
	})
}
