package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rigflow/core/message"
)

type embeddingTool struct {
	echoTool
}

func (t *embeddingTool) EmbeddingDocs() []string { return []string{"example invocation"} }
func (t *embeddingTool) Context() any            { return map[string]string{"kind": "embedding"} }

func TestType_SimpleWrapsTool(t *testing.T) {
	typ := Simple(&echoTool{name: "a"})
	require.False(t, typ.IsEmbedding())
	require.Equal(t, "a", typ.Tool().Name())
	_, ok := typ.Embedding()
	require.False(t, ok)
}

func TestType_FromEmbeddingWrapsEmbeddingTool(t *testing.T) {
	et := &embeddingTool{echoTool: echoTool{name: "b"}}
	typ := FromEmbedding(et)
	require.True(t, typ.IsEmbedding())

	embed, ok := typ.Embedding()
	require.True(t, ok)
	require.Equal(t, []string{"example invocation"}, embed.EmbeddingDocs())
	require.Equal(t, "b", typ.Tool().Name())
}

func TestEmbeddingTool_SatisfiesEmbeddingInterface(t *testing.T) {
	var _ Embedding = &embeddingTool{}
	var _ Tool = &embeddingTool{}

	et := &embeddingTool{echoTool: echoTool{name: "c"}}
	def, err := et.Definition(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "c", def.Name)
	_ = message.ToolDefinition{}
}
