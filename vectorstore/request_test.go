package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchRequestBuilder_RequiresQueryAndSamples(t *testing.T) {
	_, err := NewSearchRequestBuilder[any]("", 1).Build()
	require.Error(t, err)

	_, err = NewSearchRequestBuilder[any]("q", 0).Build()
	require.Error(t, err)
}

func TestSearchRequestBuilder_ValidMinimal(t *testing.T) {
	req, err := NewSearchRequestBuilder[any]("q", 5).Build()
	require.NoError(t, err)
	require.Equal(t, "q", req.Query)
	require.Equal(t, uint64(5), req.Samples)
}

func TestSearchRequestBuilder_WithFilterAndThreshold(t *testing.T) {
	req, err := NewSearchRequestBuilder[any]("q", 3).Threshold(0.5).WithFilter(Eq[any]("k", "v")).Build()
	require.NoError(t, err)
	require.NotNil(t, req.Threshold)
	require.Equal(t, 0.5, *req.Threshold)
	require.NotNil(t, req.Filter)
}
