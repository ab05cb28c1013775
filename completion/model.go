package completion

import (
	"context"

	"github.com/rigflow/core/streaming"
)

// Model is the contract every provider adapter implements for single-shot
// completion. R is the provider's raw response payload type, kept generic
// so adapters can expose it to callers that need provider-specific fields
// without the core depending on any one SDK's types.
type Model[R any] interface {
	Completion(ctx context.Context, req Request) (Response[R], error)
}

// StreamingModel is the contract for event-stream completion. S is the
// provider's raw final-response payload type, analogous to R on Model.
type StreamingModel[S any] interface {
	Stream(ctx context.Context, req Request) (streaming.Response[S], error)
}
