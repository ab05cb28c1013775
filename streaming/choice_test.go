package streaming

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawStreamingChoice_OnlyOneVariantActive(t *testing.T) {
	c := MessageChunk("hi")
	_, isMsg := c.Message()
	_, isToolCall := c.ToolCall()
	require.True(t, isMsg)
	require.False(t, isToolCall)
}

func TestToolCallDeltaChoice_CarriesInternalCallID(t *testing.T) {
	c := ToolCallDeltaChoice(ToolCallDeltaChunk{ID: "tc_1", InternalCallID: "internal-1", Content: `{"a":`})
	delta, ok := c.ToolCallDelta()
	require.True(t, ok)
	require.Equal(t, "internal-1", delta.InternalCallID)
}
