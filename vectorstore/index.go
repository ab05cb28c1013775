package vectorstore

import "context"

// ScoredResult is one ranked hit from TopN, with its payload deserialised
// into T.
type ScoredResult[T any] struct {
	Score   float64
	ID      string
	Payload T
}

// ScoredID is the TopNIDs analogue of ScoredResult, omitting the payload
// so a backend can avoid materialising it when the caller only needs ids.
type ScoredID struct {
	Score float64
	ID    string
}

// Index is the VectorStoreIndex contract: embed the query with the
// index's associated embedding model, retrieve at most Samples nearest
// neighbours above Threshold (if set) that satisfy Filter, and return
// them in descending-score order. T is the deserialised payload type; F
// is the backend's filter dialect.
type Index[T any, F any] interface {
	TopN(ctx context.Context, req SearchRequest[F]) ([]ScoredResult[T], error)
	TopNIDs(ctx context.Context, req SearchRequest[F]) ([]ScoredID, error)
}
