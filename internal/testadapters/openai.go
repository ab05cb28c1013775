package testadapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/streaming"
)

// OpenAIStreamModel drives the real OpenAI SDK's chat-completion
// streaming endpoint directly into RawStreamingChoice values, bypassing
// streaming.Normalizer: OpenAI's wire shape diverges from the
// Anthropic-style Event the normaliser understands, and its
// function-call deltas arrive name-then-arguments across separate
// frames correlated only by a per-choice index, not a stable id. This
// adapter is the reference the ToolCallDelta/InternalCallID correlation
// contract (spec.md §4.2) is validated against in tests.
type OpenAIStreamModel struct {
	Client *openai.Client
	Model  string
}

func (m *OpenAIStreamModel) Stream(ctx context.Context, req completion.Request) (streaming.Response[openai.ChatCompletion], error) {
	params := openaiParams(m.Model, req)

	sdkStream := m.Client.Chat.Completions.NewStreaming(ctx, params)

	choices := make(chan streaming.RawStreamingChoice, 16)
	final := make(chan streaming.FinalResponse[openai.ChatCompletion], 1)
	errs := make(chan error, 1)

	go func() {
		defer close(choices)

		acc := openai.ChatCompletionAccumulator{}
		internalByIndex := map[int64]string{}
		internalByID := map[string]string{}

		for sdkStream.Next() {
			chunk := sdkStream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta

			if delta.Content != "" {
				choices <- streaming.MessageChunk(delta.Content)
			}

			for _, tc := range delta.ToolCalls {
				internalID, known := internalByIndex[tc.Index]
				if !known {
					internalID = streaming.InternalCallIDFor(int(tc.Index))
					internalByIndex[tc.Index] = internalID
				}
				if tc.ID != "" {
					internalByID[tc.ID] = internalID
				}
				fragment := tc.Function.Name + tc.Function.Arguments
				if fragment == "" {
					continue
				}
				choices <- streaming.ToolCallDeltaChoice(streaming.ToolCallDeltaChunk{
					ID:             tc.ID,
					InternalCallID: internalID,
					Content:        fragment,
				})
			}

			if tool, ok := acc.JustFinishedToolCall(); ok {
				choices <- streaming.ToolCallChoice(streaming.RawStreamingToolCall{
					ID:             tool.ID,
					InternalCallID: internalByID[tool.ID],
					Function: message.FunctionCall{
						Name:      tool.Name,
						Arguments: json.RawMessage(tool.Arguments),
					},
				})
			}
		}
		if err := sdkStream.Err(); err != nil {
			errs <- fmt.Errorf("openai stream: %w", err)
			return
		}

		usage := message.Usage{
			InputTokens:  acc.Usage.PromptTokens,
			OutputTokens: acc.Usage.CompletionTokens,
		}
		var messageID *string
		if acc.ID != "" {
			id := acc.ID
			messageID = &id
		}
		final <- streaming.FinalResponse[openai.ChatCompletion]{
			Usage:       usage,
			RawResponse: acc.ChatCompletion,
			MessageID:   messageID,
		}
	}()

	return streaming.Response[openai.ChatCompletion]{Choices: choices, Final: final, Errs: errs}, nil
}

func openaiParams(model string, req completion.Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, req.ChatHistory.Len()+1)
	if req.Preamble != "" {
		messages = append(messages, openai.SystemMessage(req.Preamble))
	}
	for _, msg := range req.ChatHistory.Slice() {
		messages = append(messages, openaiMessage(msg)...)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}
	return params
}

func openaiMessage(msg message.Message) []openai.ChatCompletionMessageParamUnion {
	if content, ok := msg.User(); ok {
		out := make([]openai.ChatCompletionMessageParamUnion, 0, content.Len())
		for _, c := range content.Slice() {
			if text, ok := c.Text(); ok {
				out = append(out, openai.UserMessage(text))
				continue
			}
			if result, ok := c.ToolResult(); ok {
				text, _ := result.Content.First().Text()
				out = append(out, openai.ToolMessage(text, result.ID))
			}
		}
		return out
	}
	if content, ok := msg.Assistant(); ok {
		for _, c := range content.Slice() {
			if text, ok := c.Text(); ok {
				return []openai.ChatCompletionMessageParamUnion{openai.AssistantMessage(text)}
			}
		}
	}
	return nil
}
