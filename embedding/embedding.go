// Package embedding defines the provider-neutral embedding-model
// contract and the Embedding value it produces, plus a pluggable
// distance metric used by vector-store backends to rank results.
package embedding

import "context"

// Embedding pairs the source document text with its vector
// representation. Distance between two embeddings is computed by the
// Distance function configured on the consuming index, defaulting to
// CosineDistance.
type Embedding struct {
	Document string
	Vec      []float64
}

// Model is the contract every embedding provider adapter implements.
// Batched Embed is the primary path; EmbedOne is a one-text convenience
// wrapper any adapter gets for free via EmbedOne in this package.
type Model interface {
	// EmbedBatch embeds every text in documents, returning one Embedding
	// per input in the same order. len(documents) must not exceed
	// MaxBatchSize; callers needing more split into multiple calls.
	EmbedBatch(ctx context.Context, documents []string) ([]Embedding, error)

	// Name identifies the provider/model, e.g. "gemini:text-embedding-004".
	Name() string

	// Dimension is the length of every Vec this model produces.
	Dimension() int

	// MaxBatchSize is the largest documents slice EmbedBatch accepts.
	MaxBatchSize() int
}

// EmbedOne embeds a single document via m's batch path.
func EmbedOne(ctx context.Context, m Model, document string) (Embedding, error) {
	out, err := m.EmbedBatch(ctx, []string{document})
	if err != nil {
		return Embedding{}, err
	}
	if len(out) == 0 {
		return Embedding{}, errEmptyBatchResult
	}
	return out[0], nil
}
