package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsage_AddAndTotal(t *testing.T) {
	a := Usage{InputTokens: 10, OutputTokens: 5, CachedInputTokens: 2}
	b := Usage{InputTokens: 1, OutputTokens: 3, ReasoningOutputTokens: 4}
	sum := a.Add(b)
	require.Equal(t, int64(11), sum.InputTokens)
	require.Equal(t, int64(8), sum.OutputTokens)
	require.Equal(t, int64(2), sum.CachedInputTokens)
	require.Equal(t, int64(4), sum.ReasoningOutputTokens)
	require.Equal(t, int64(19), sum.TotalTokens())
}
