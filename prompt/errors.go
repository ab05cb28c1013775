package prompt

import (
	"errors"
	"fmt"

	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
)

// ErrCancelled is returned when a CancelSignal fires mid-run, or a hook
// returns the Abort decision.
var ErrCancelled = errors.New("prompt: run cancelled")

// MaxDepthError reports the multi-turn loop exceeding MaxDepth. It
// carries the chat history and last prompt at the point of failure so
// callers can resume or inspect the conversation rather than losing it.
type MaxDepthError struct {
	MaxDepth    int
	ChatHistory oneormany.OneOrMany[message.Message]
	Prompt      message.Message
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("prompt: exceeded max depth %d", e.MaxDepth)
}

// ToolMissingError reports a tool call naming a tool absent from the
// agent's tool set, aborting the run (spec.md §4.3(g): "a missing tool
// fails the whole prompt").
type ToolMissingError struct {
	Name string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("prompt: tool %q not found", e.Name)
}
