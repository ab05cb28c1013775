package prompt

import (
	"context"

	"github.com/rigflow/core/completion"
)

// ToolDecision is a hook's verdict on whether a tool call proceeds.
type ToolDecision struct {
	skip   bool
	abort  bool
	reason string
}

// Continue proceeds with dispatching the tool call.
func Continue() ToolDecision { return ToolDecision{} }

// Skip synthesises a tool result with reason instead of executing the
// tool.
func Skip(reason string) ToolDecision { return ToolDecision{skip: true, reason: reason} }

// Abort terminates the run with ErrCancelled.
func Abort() ToolDecision { return ToolDecision{abort: true} }

// Hook observes and optionally mutates a prompt-engine run. Every
// method is optional; embedding NoopHook satisfies the interface with
// defaults matching spec.md §4.3's "defaults are no-ops / Continue".
type Hook interface {
	// OnCompletionCall observes or mutates the outgoing request; the
	// returned request replaces it.
	OnCompletionCall(ctx context.Context, req completion.Request) (completion.Request, error)

	// OnCompletionResponse observes the reply.
	OnCompletionResponse(ctx context.Context, text string) error

	// OnToolCall decides whether a tool call proceeds.
	OnToolCall(ctx context.Context, name string, callID *string, argsJSON string, cancel *CancelSignal) (ToolDecision, error)

	// OnToolResult observes a tool call's outcome.
	OnToolResult(ctx context.Context, name string, callID *string, argsJSON string, result string, cancel *CancelSignal) error
}

// NoopHook implements Hook with every method a no-op / Continue,
// embeddable by callers that only want to override a subset of
// methods.
type NoopHook struct{}

func (NoopHook) OnCompletionCall(ctx context.Context, req completion.Request) (completion.Request, error) {
	return req, nil
}

func (NoopHook) OnCompletionResponse(ctx context.Context, text string) error { return nil }

func (NoopHook) OnToolCall(ctx context.Context, name string, callID *string, argsJSON string, cancel *CancelSignal) (ToolDecision, error) {
	return Continue(), nil
}

func (NoopHook) OnToolResult(ctx context.Context, name string, callID *string, argsJSON string, result string, cancel *CancelSignal) error {
	return nil
}
