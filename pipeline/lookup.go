package pipeline

import (
	"context"

	"github.com/rigflow/core/vectorstore"
)

// Lookup coerces its input to a query string via toQuery, retrieves
// the n best-scoring entries from index, and returns their payloads in
// ranked order. This is the pipeline analogue of agent.Agent's
// DynamicContext/DynamicTools resolution, exposed as a standalone Op so
// retrieval can be composed outside of a full prompt-engine run.
func Lookup[I any, T any, F any](index vectorstore.Index[T, F], n uint64, toQuery func(I) string) Op[I, []T] {
	return OpFunc[I, []T](func(ctx context.Context, input I) ([]T, error) {
		req, err := vectorstore.NewSearchRequestBuilder[F](toQuery(input), n).Build()
		if err != nil {
			return nil, err
		}
		results, err := index.TopN(ctx, req)
		if err != nil {
			return nil, err
		}
		out := make([]T, len(results))
		for i, r := range results {
			out[i] = r.Payload
		}
		return out, nil
	})
}
