// Package streaming defines the normalised event-stream shapes every
// provider adapter's stream() method emits, plus the normaliser that
// turns provider-specific SSE payloads into this common vocabulary.
package streaming

import "github.com/rigflow/core/message"

// RawStreamingToolCall is a fully formed tool call emitted mid-stream,
// whose arguments are already valid JSON and is safe to execute
// immediately.
type RawStreamingToolCall struct {
	ID             string
	CallID         *string
	InternalCallID string
	Function       message.FunctionCall
}

// RawStreamingChoice is one element of the normalised event stream. In
// emission-order terms: Message/Reasoning/ReasoningDelta/ToolCall/
// ToolCallDelta may interleave freely across distinct ids; fragments
// sharing an id arrive in producer order; FinalResponse is always last.
type RawStreamingChoice struct {
	ofMessage        *string
	ofReasoning      *ReasoningChunk
	ofReasoningDelta *ReasoningDeltaChunk
	ofToolCall       *RawStreamingToolCall
	ofToolCallDelta  *ToolCallDeltaChunk
}

// ReasoningChunk is a completed (atomic) reasoning block.
type ReasoningChunk struct {
	ID      *string
	Content string
}

// ReasoningDeltaChunk is an incremental reasoning fragment; consumers
// concatenate fragments sharing the same ID.
type ReasoningDeltaChunk struct {
	ID        *string
	Reasoning string
}

// ToolCallDeltaChunk is an incremental name/argument fragment. Consumers
// must group by InternalCallID and must not invoke the tool until a
// matching RawStreamingToolCall finalises the call.
type ToolCallDeltaChunk struct {
	ID             string
	InternalCallID string
	Content        string
}

func MessageChunk(text string) RawStreamingChoice { return RawStreamingChoice{ofMessage: &text} }

func ReasoningChunkChoice(c ReasoningChunk) RawStreamingChoice {
	return RawStreamingChoice{ofReasoning: &c}
}

func ReasoningDeltaChoice(c ReasoningDeltaChunk) RawStreamingChoice {
	return RawStreamingChoice{ofReasoningDelta: &c}
}

func ToolCallChoice(c RawStreamingToolCall) RawStreamingChoice {
	return RawStreamingChoice{ofToolCall: &c}
}

func ToolCallDeltaChoice(c ToolCallDeltaChunk) RawStreamingChoice {
	return RawStreamingChoice{ofToolCallDelta: &c}
}

func (c RawStreamingChoice) Message() (string, bool) {
	if c.ofMessage == nil {
		return "", false
	}
	return *c.ofMessage, true
}

func (c RawStreamingChoice) Reasoning() (ReasoningChunk, bool) {
	if c.ofReasoning == nil {
		return ReasoningChunk{}, false
	}
	return *c.ofReasoning, true
}

func (c RawStreamingChoice) ReasoningDelta() (ReasoningDeltaChunk, bool) {
	if c.ofReasoningDelta == nil {
		return ReasoningDeltaChunk{}, false
	}
	return *c.ofReasoningDelta, true
}

func (c RawStreamingChoice) ToolCall() (RawStreamingToolCall, bool) {
	if c.ofToolCall == nil {
		return RawStreamingToolCall{}, false
	}
	return *c.ofToolCall, true
}

func (c RawStreamingChoice) ToolCallDelta() (ToolCallDeltaChunk, bool) {
	if c.ofToolCallDelta == nil {
		return ToolCallDeltaChunk{}, false
	}
	return *c.ofToolCallDelta, true
}
