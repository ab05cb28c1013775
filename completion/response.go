package completion

import (
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
)

// Response is the provider-neutral completion response. R is the
// provider-native raw payload, retained verbatim for callers that need
// fields the core does not normalise.
type Response[R any] struct {
	Choice      oneormany.OneOrMany[message.AssistantContent]
	Usage       message.Usage
	RawResponse R

	// MessageID is the provider-supplied message identifier, when the
	// provider returns one. AssistantMessage stamps it onto the
	// resulting Message so that providers keying session state off
	// message ids observe continuity across turns.
	MessageID *string
}

// Text concatenates every text block in Choice, in order. It ignores
// reasoning and tool-call blocks; callers needing those should inspect
// Choice directly.
func (r Response[R]) Text() string {
	var out string
	r.Choice.ForEach(func(c message.AssistantContent) {
		if text, ok := c.Text(); ok {
			out += text
		}
	})
	return out
}

// ToolCalls returns every tool call block in Choice, in order.
func (r Response[R]) ToolCalls() []message.ToolCallBlock {
	var calls []message.ToolCallBlock
	r.Choice.ForEach(func(c message.AssistantContent) {
		if tc, ok := c.ToolCall(); ok {
			calls = append(calls, tc)
		}
	})
	return calls
}

// AssistantMessage assembles Choice into a Message, preserving the order
// the provider emitted content blocks in.
func (r Response[R]) AssistantMessage() message.Message {
	blocks := r.Choice.Slice()
	m, err := message.AssistantMessageFromSlice(blocks)
	if err != nil {
		// Choice is a OneOrMany and therefore never empty; this is
		// unreachable, but we do not panic across a package boundary.
		m = message.NewAssistantMessage(blocks[0])
	}
	if r.MessageID != nil {
		m = m.WithID(*r.MessageID)
	}
	return m
}
