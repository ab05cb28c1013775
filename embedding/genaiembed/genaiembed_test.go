package genaiembed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModel_EmbedBatch_EmptyInput(t *testing.T) {
	m := &Model{maxBatchSize: 10}
	out, err := m.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestModel_EmbedBatch_RejectsOversizedBatch(t *testing.T) {
	m := &Model{maxBatchSize: 1}
	_, err := m.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
}

func TestModel_NameAndDimension(t *testing.T) {
	m := &Model{model: "text-embedding-004", dimension: 768, maxBatchSize: 10}
	require.Equal(t, "gemini:text-embedding-004", m.Name())
	require.Equal(t, 768, m.Dimension())
}
