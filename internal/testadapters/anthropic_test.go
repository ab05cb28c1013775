package testadapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
)

func TestMessageStartID_ExtractsIDFromMessageStartEvent(t *testing.T) {
	raw := `{"type":"message_start","message":{"id":"msg_01abc","usage":{"input_tokens":10}}}`
	require.Equal(t, "msg_01abc", messageStartID(raw))
}

func TestMessageStartID_IgnoresOtherEventTypes(t *testing.T) {
	raw := `{"type":"content_block_delta","delta":{"type":"text_delta","text":"hi"}}`
	require.Equal(t, "", messageStartID(raw))
}

func TestAnthropicMessages_ConvertsTextAndToolResult(t *testing.T) {
	history := []message.Message{
		message.NewUserMessage(message.UserText("hello")),
		message.NewAssistantMessage(message.AssistantText("hi there")),
		message.NewUserMessage(message.UserToolResult(message.ToolResultBlock{
			ID:      "lookup",
			Content: oneormany.New(message.ToolResultText("42")),
		})),
	}

	out, err := anthropicMessages(history)
	require.NoError(t, err)
	require.Len(t, out, 3)
}
