package streaming

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rigflow/core/message"
	"github.com/rigflow/core/sse"
)

// ErrMalformedStream is surfaced after too many consecutive events that
// produced no normalised output, guarding against a provider that is
// technically emitting valid SSE frames but never advancing the turn.
var ErrMalformedStream = errors.New("streaming: stream appears malformed")

const maxEmptyEvents = 20

// Event is the subset of Anthropic-style message-stream event shapes the
// normaliser understands. Providers with a different wire shape supply
// their own translation into this struct before handing frames to
// Normalizer.Feed; the struct's field set mirrors content_block_start/
// content_block_delta/content_block_stop/message_start/message_delta/
// message_stop/error. Adapters whose stream has no such block framing
// (the OpenAI test adapter in internal/testadapters) build
// RawStreamingChoice values directly instead of using the Normalizer.
type Event struct {
	Type  string `json:"type"`
	Index int    `json:"index"`

	Message struct {
		ID    string `json:"id"`
		Usage struct {
			InputTokens  int64 `json:"input_tokens"`
			OutputTokens int64 `json:"output_tokens"`
		} `json:"usage"`
	} `json:"message"`

	ContentBlock struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"content_block"`

	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		Thinking    string `json:"thinking"`
		Signature   string `json:"signature"`
		PartialJSON string `json:"partial_json"`
	} `json:"delta"`

	Usage struct {
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`

	ErrorMessage string `json:"error"`
}

// Normalizer converts a sequence of provider Events into RawStreamingChoice
// values, assigning an internal_call_id to every tool call so consumers
// can correlate ToolCallDelta fragments before the provider id is known.
type Normalizer struct {
	choices chan RawStreamingChoice

	currentToolID             string
	currentToolInternalCallID string
	currentToolName           strings.Builder
	currentToolArgs           strings.Builder
	inReasoningBlock          bool
	reasoningID               string

	inputTokens  int64
	outputTokens int64

	emptyEvents int
}

// NewNormalizer constructs a Normalizer whose output is read from Choices().
func NewNormalizer() *Normalizer {
	return &Normalizer{choices: make(chan RawStreamingChoice, 16)}
}

// Choices returns the channel normalised chunks are published on.
func (n *Normalizer) Choices() <-chan RawStreamingChoice { return n.choices }

// Close releases the output channel once the caller is done draining it.
func (n *Normalizer) Close() { close(n.choices) }

// Feed processes one decoded SSE MessageEvent. It returns (usage, done,
// err): done is true once message_stop/error has been observed, or once
// maxEmptyEvents consecutive frames produced no output (err is then
// ErrMalformedStream), and no further events should be fed.
func (n *Normalizer) Feed(raw sse.MessageEvent) (usage message.Usage, done bool, err error) {
	if sse.IsHeartbeat(raw) {
		return message.Usage{}, false, nil
	}

	var ev Event
	if unmarshalErr := json.Unmarshal([]byte(raw.Data), &ev); unmarshalErr != nil {
		// A single malformed frame is logged at debug and skipped; it
		// never terminates the stream on its own.
		slog.Debug("streaming: skipping malformed frame", "error", unmarshalErr)
		n.emptyEvents++
		if n.emptyEvents >= maxEmptyEvents {
			return message.Usage{}, true, ErrMalformedStream
		}
		return message.Usage{}, false, nil
	}

	processed := n.dispatch(ev)
	if !processed {
		n.emptyEvents++
		if n.emptyEvents >= maxEmptyEvents {
			return message.Usage{}, true, ErrMalformedStream
		}
	} else {
		n.emptyEvents = 0
	}

	switch ev.Type {
	case "message_stop":
		return message.Usage{InputTokens: n.inputTokens, OutputTokens: n.outputTokens}, true, nil
	case "error":
		return message.Usage{}, true, fmt.Errorf("streaming: provider error: %s", ev.ErrorMessage)
	default:
		return message.Usage{}, false, nil
	}
}

func (n *Normalizer) dispatch(ev Event) bool {
	switch ev.Type {
	case "message_start":
		if ev.Message.Usage.InputTokens > 0 {
			n.inputTokens = ev.Message.Usage.InputTokens
		}
		return true

	case "content_block_start":
		switch ev.ContentBlock.Type {
		case "thinking":
			n.inReasoningBlock = true
			n.reasoningID = ev.ContentBlock.ID
			return true
		case "tool_use":
			n.currentToolID = ev.ContentBlock.ID
			n.currentToolInternalCallID = uuid.NewString()
			n.currentToolName.Reset()
			n.currentToolName.WriteString(ev.ContentBlock.Name)
			n.currentToolArgs.Reset()
			return true
		}
		return false

	case "content_block_delta":
		switch ev.Delta.Type {
		case "text_delta":
			if ev.Delta.Text == "" {
				return false
			}
			n.choices <- MessageChunk(ev.Delta.Text)
			return true
		case "thinking_delta":
			if ev.Delta.Thinking == "" {
				return false
			}
			id := optionalID(n.reasoningID)
			n.choices <- ReasoningDeltaChoice(ReasoningDeltaChunk{ID: id, Reasoning: ev.Delta.Thinking})
			return true
		case "signature_delta":
			if ev.Delta.Signature == "" {
				return false
			}
			id := optionalID(n.reasoningID)
			n.choices <- ReasoningChunkChoice(ReasoningChunk{ID: id, Content: ev.Delta.Signature})
			return true
		case "input_json_delta":
			if ev.Delta.PartialJSON == "" {
				return false
			}
			n.currentToolArgs.WriteString(ev.Delta.PartialJSON)
			n.choices <- ToolCallDeltaChoice(ToolCallDeltaChunk{
				ID:             n.currentToolID,
				InternalCallID: n.currentToolInternalCallID,
				Content:        ev.Delta.PartialJSON,
			})
			return true
		}
		return false

	case "content_block_stop":
		switch {
		case n.inReasoningBlock:
			n.inReasoningBlock = false
			return true
		case n.currentToolID != "":
			n.choices <- ToolCallChoice(RawStreamingToolCall{
				ID:             n.currentToolID,
				InternalCallID: n.currentToolInternalCallID,
				Function: message.FunctionCall{
					Name:      n.currentToolName.String(),
					Arguments: json.RawMessage(n.currentToolArgs.String()),
				},
			})
			n.currentToolID = ""
			return true
		}
		return false

	case "message_delta":
		if ev.Usage.OutputTokens > 0 {
			n.outputTokens = ev.Usage.OutputTokens
		}
		return true

	case "message_stop", "error":
		return true

	default:
		return false
	}
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// InternalCallIDFor formats a deterministic fallback internal call id
// from a zero-indexed position, used by adapters that finalise tool
// calls outside the event loop (e.g. a non-streaming response with
// multiple tool_use blocks) and still want a stable correlation key.
func InternalCallIDFor(index int) string {
	return "tc-" + strconv.Itoa(index)
}
