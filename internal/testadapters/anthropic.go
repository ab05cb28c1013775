// Package testadapters hosts reference CompletionModel/StreamingModel
// implementations built on real provider SDKs. They exist only to
// exercise this core's contracts against genuine wire shapes in tests —
// no production code in this module depends on this package, and it
// ships no concrete provider for callers to construct against.
package testadapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/sse"
	"github.com/rigflow/core/streaming"
)

// AnthropicStreamModel drives the real Anthropic SDK's streaming
// endpoint and feeds its events into streaming.Normalizer, proving the
// normaliser's Anthropic-shaped Event struct actually matches what the
// SDK emits rather than a hand-fixtured approximation of it.
type AnthropicStreamModel struct {
	Client anthropic.Client
	Model  string
}

func (m *AnthropicStreamModel) Stream(ctx context.Context, req completion.Request) (streaming.Response[anthropic.Message], error) {
	params, err := anthropicParams(m.Model, req)
	if err != nil {
		return streaming.Response[anthropic.Message]{}, err
	}

	sdkStream := m.Client.Messages.NewStreaming(ctx, params)

	normalizer := streaming.NewNormalizer()
	final := make(chan streaming.FinalResponse[anthropic.Message], 1)
	errs := make(chan error, 1)

	go func() {
		defer normalizer.Close()

		var usage message.Usage
		var messageID *string

		for sdkStream.Next() {
			raw := sdkStream.Current().RawJSON()

			if id := messageStartID(raw); id != "" {
				messageID = &id
			}

			u, done, feedErr := normalizer.Feed(sse.MessageEvent{Data: raw})
			if feedErr != nil {
				errs <- feedErr
				return
			}
			if done {
				usage = u
				break
			}
		}
		if err := sdkStream.Err(); err != nil {
			errs <- fmt.Errorf("anthropic stream: %w", err)
			return
		}
		final <- streaming.FinalResponse[anthropic.Message]{Usage: usage, MessageID: messageID}
	}()

	return streaming.Response[anthropic.Message]{Choices: normalizer.Choices(), Final: final, Errs: errs}, nil
}

// messageStartID extracts the provider message id from a raw
// message_start event, the one event in Anthropic's stream that
// carries it, so callers correlating session state by message id see
// it even in the streaming path (spec.md's multi-turn identifier
// continuity rule).
func messageStartID(raw string) string {
	var probe struct {
		Type    string `json:"type"`
		Message struct {
			ID string `json:"id"`
		} `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return ""
	}
	if probe.Type != "message_start" {
		return ""
	}
	return probe.Message.ID
}

func anthropicParams(model string, req completion.Request) (anthropic.MessageNewParams, error) {
	messages, err := anthropicMessages(req.ChatHistory.Slice())
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	maxTokens := int64(4096)
	if req.MaxTokens != nil {
		maxTokens = int64(*req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if req.Preamble != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Preamble}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	return params, nil
}

// anthropicMessages converts the provider-neutral chat history into the
// Anthropic SDK's own message params, mirroring
// internal/agent/providers/anthropic.go's convertMessages. Only the
// text and tool-call/tool-result shapes are translated; this adapter is
// a streaming-contract fixture, not a production provider, so media
// blocks are out of scope.
func anthropicMessages(history []message.Message) ([]anthropic.MessageParam, error) {
	out := make([]anthropic.MessageParam, 0, len(history))
	for _, msg := range history {
		if content, ok := msg.User(); ok {
			blocks, err := anthropicUserBlocks(content.Slice())
			if err != nil {
				return nil, err
			}
			out = append(out, anthropic.NewUserMessage(blocks...))
			continue
		}
		if content, ok := msg.Assistant(); ok {
			blocks, err := anthropicAssistantBlocks(content.Slice())
			if err != nil {
				return nil, err
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		}
	}
	return out, nil
}

func anthropicUserBlocks(content []message.UserContent) ([]anthropic.ContentBlockParamUnion, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content))
	for _, c := range content {
		if text, ok := c.Text(); ok {
			blocks = append(blocks, anthropic.NewTextBlock(text))
			continue
		}
		if result, ok := c.ToolResult(); ok {
			text, _ := result.Content.First().Text()
			blocks = append(blocks, anthropic.NewToolResultBlock(result.ID, text, false))
		}
	}
	return blocks, nil
}

func anthropicAssistantBlocks(content []message.AssistantContent) ([]anthropic.ContentBlockParamUnion, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content))
	for _, c := range content {
		if text, ok := c.Text(); ok {
			blocks = append(blocks, anthropic.NewTextBlock(text))
			continue
		}
		if call, ok := c.ToolCall(); ok {
			var args map[string]any
			if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
				return nil, fmt.Errorf("anthropic tool call args: %w", err)
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, args, call.Function.Name))
		}
	}
	return blocks, nil
}
