package prompt

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rigflow/core/agent"
	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
)

// Event is one fragment RunStreaming forwards to the caller as soon as
// the model emits it: a text delta or a reasoning delta. Exactly one
// variant is active.
type Event struct {
	ofText      *string
	ofReasoning *string
}

func textEvent(s string) Event      { return Event{ofText: &s} }
func reasoningEvent(s string) Event { return Event{ofReasoning: &s} }

// Text returns the text fragment, if this variant is active.
func (e Event) Text() (string, bool) {
	if e.ofText == nil {
		return "", false
	}
	return *e.ofText, true
}

// Reasoning returns the reasoning fragment, if this variant is active.
func (e Event) Reasoning() (string, bool) {
	if e.ofReasoning == nil {
		return "", false
	}
	return *e.ofReasoning, true
}

// StreamResult is RunStreaming's channel trio: the streaming analogue
// of Run's (Result, error) return. Events carries forwarded text and
// reasoning fragments as the model emits them; exactly one of Done or
// Errs receives a single value, sent just before Events closes, so a
// caller may drain Events first and then read it.
type StreamResult struct {
	Events <-chan Event
	Done   <-chan Result
	Errs   <-chan error
}

// RunStreaming drives the same multi-turn loop as Run, but dispatches
// each turn through streamModel and forwards text/reasoning fragments
// to the returned StreamResult's Events channel as the model emits
// them, rather than buffering a whole turn before returning. The
// prompt engine's agent bundle carries a single Model[R] handle (spec
// §4.3); streamModel is supplied separately here because a provider
// adapter commonly implements both completion.Model[R] and
// completion.StreamingModel[R] on the same concrete type and callers
// pick whichever this call needs.
func (e *Engine[R]) RunStreaming(
	ctx context.Context,
	ag agent.Agent[R],
	streamModel completion.StreamingModel[R],
	initialPrompt message.Message,
	chatHistoryIn []message.Message,
	maxDepth int,
	hook Hook,
	cancel *CancelSignal,
) StreamResult {
	events := make(chan Event, 16)
	done := make(chan Result, 1)
	errs := make(chan error, 1)

	go e.runStreamingLoop(ctx, ag, streamModel, initialPrompt, chatHistoryIn, maxDepth, hook, cancel, events, done, errs)

	return StreamResult{Events: events, Done: done, Errs: errs}
}

func (e *Engine[R]) runStreamingLoop(
	ctx context.Context,
	ag agent.Agent[R],
	streamModel completion.StreamingModel[R],
	initialPrompt message.Message,
	chatHistoryIn []message.Message,
	maxDepth int,
	hook Hook,
	cancel *CancelSignal,
	events chan<- Event,
	done chan<- Result,
	errs chan<- error,
) {
	defer close(events)

	if hook == nil {
		hook = NoopHook{}
	}

	ctx, span := e.tracer.Start(ctx, "prompt.RunStreaming")
	defer span.End()

	seed := make([]message.Message, 0, len(chatHistoryIn)+1)
	seed = append(seed, chatHistoryIn...)
	seed = append(seed, initialPrompt)
	h, err := oneormany.FromSlice(seed)
	if err != nil {
		errs <- err
		return
	}
	lastPrompt := initialPrompt
	var usage message.Usage

	for depth := 0; ; depth++ {
		if cancel.Signalled() {
			span.SetStatus(codes.Error, ErrCancelled.Error())
			errs <- ErrCancelled
			return
		}
		if depth > maxDepth {
			maxDepthErr := &MaxDepthError{MaxDepth: maxDepth, ChatHistory: h, Prompt: lastPrompt}
			if e.metrics != nil {
				e.metrics.MaxDepthExceeded.Inc()
			}
			span.RecordError(maxDepthErr)
			errs <- maxDepthErr
			return
		}
		if e.metrics != nil {
			e.metrics.IterationCounter.Inc()
		}
		span.SetAttributes(attribute.Int("prompt.depth", depth))

		req, err := e.buildRequest(ctx, &ag, h, lastPrompt)
		if err != nil {
			errs <- err
			return
		}
		req, err = hook.OnCompletionCall(ctx, req)
		if err != nil {
			errs <- err
			return
		}

		turn, err := e.streamTurn(ctx, streamModel, req, events)
		if err != nil {
			span.RecordError(err)
			errs <- err
			return
		}
		usage = usage.Add(turn.usage)

		assistantMsg := turn.assistantMessage()
		h = h.Push(assistantMsg)

		if err := hook.OnCompletionResponse(ctx, turn.text); err != nil {
			errs <- err
			return
		}

		if len(turn.toolCalls) == 0 {
			done <- Result{Text: turn.text, ChatHistory: h, Usage: usage}
			return
		}

		userMsgs, err := e.dispatchToolCalls(ctx, &ag, turn.toolCalls, hook, cancel)
		if err != nil {
			span.RecordError(err)
			errs <- err
			return
		}
		for _, um := range userMsgs {
			h = h.Push(um)
			lastPrompt = um
		}
	}
}

// streamedTurn accumulates one turn's normalised choices into the
// shapes the loop needs: the concatenated text, finalised reasoning
// blocks, and fully formed tool calls ready to dispatch.
type streamedTurn struct {
	text      string
	reasoning []message.ReasoningBlock
	toolCalls []message.ToolCallBlock
	usage     message.Usage
	messageID *string
}

func (t streamedTurn) assistantMessage() message.Message {
	blocks := make([]message.AssistantContent, 0, len(t.reasoning)+len(t.toolCalls)+1)
	for _, r := range t.reasoning {
		blocks = append(blocks, message.AssistantReasoning(r))
	}
	if t.text != "" || len(blocks)+len(t.toolCalls) == 0 {
		blocks = append(blocks, message.AssistantText(t.text))
	}
	for _, tc := range t.toolCalls {
		blocks = append(blocks, message.AssistantToolCall(tc))
	}

	msg, err := message.AssistantMessageFromSlice(blocks)
	if err != nil {
		// blocks always has at least one element by construction above.
		msg = message.NewAssistantMessage(blocks[0])
	}
	if t.messageID != nil {
		msg = msg.WithID(*t.messageID)
	}
	return msg
}

// streamTurn drains one turn's RawStreamingChoice channel, forwarding
// text and reasoning fragments to events as they arrive and assembling
// the turn's full content for history once the stream for this turn
// ends. Per the normaliser's contract, a ToolCall choice already
// carries finalised, ready-to-execute arguments; ToolCallDelta
// fragments exist only for progressive display and are not needed to
// assemble a dispatchable call.
func (e *Engine[R]) streamTurn(ctx context.Context, model completion.StreamingModel[R], req completion.Request, events chan<- Event) (streamedTurn, error) {
	ctx, span := e.tracer.Start(ctx, "prompt.stream_turn")
	defer span.End()

	resp, err := model.Stream(ctx, req)
	if err != nil {
		span.RecordError(err)
		return streamedTurn{}, err
	}

	var turn streamedTurn
	reasoningBuf := map[string]*strings.Builder{}

	for choice := range resp.Choices {
		if text, ok := choice.Message(); ok {
			turn.text += text
			events <- textEvent(text)
			continue
		}
		if delta, ok := choice.ReasoningDelta(); ok {
			key := reasoningKey(delta.ID)
			buf, present := reasoningBuf[key]
			if !present {
				buf = &strings.Builder{}
				reasoningBuf[key] = buf
			}
			buf.WriteString(delta.Reasoning)
			events <- reasoningEvent(delta.Reasoning)
			continue
		}
		if block, ok := choice.Reasoning(); ok {
			key := reasoningKey(block.ID)
			summary := ""
			if buf, present := reasoningBuf[key]; present {
				summary = buf.String()
				delete(reasoningBuf, key)
			}
			signature := block.Content
			turn.reasoning = append(turn.reasoning, message.ReasoningBlock{
				ID:        block.ID,
				Summary:   []string{summary},
				Signature: &signature,
			})
			continue
		}
		if call, ok := choice.ToolCall(); ok {
			turn.toolCalls = append(turn.toolCalls, message.ToolCallBlock{
				ID:       call.ID,
				CallID:   call.CallID,
				Function: call.Function,
			})
			continue
		}
		// ToolCallDelta: dropped here. Event carries only text and
		// reasoning, and dispatch uses the finalised ToolCall.
	}

	select {
	case final := <-resp.Final:
		turn.usage = final.Usage
		turn.messageID = final.MessageID
	case err := <-resp.Errs:
		span.RecordError(err)
		return streamedTurn{}, err
	}

	return turn, nil
}

func reasoningKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
