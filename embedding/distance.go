package embedding

import (
	"errors"

	"gonum.org/v1/gonum/blas/blas64"
)

var errEmptyBatchResult = errors.New("embedding: EmbedBatch returned no results for a non-empty input")

// Distance scores the similarity between a query vector and a candidate
// embedding; higher is more similar. Vector stores accept a Distance to
// let callers override the default metric with a provider-native one.
type Distance func(query []float64, candidate Embedding) float64

// CosineDistance is the default metric: the inner product of query and
// candidate.Vec normalised by their magnitudes, i.e. cosine similarity.
// Returns 0 if either vector has zero magnitude.
func CosineDistance(query []float64, candidate Embedding) float64 {
	a := blas64.Vector{N: len(query), Inc: 1, Data: query}
	b := blas64.Vector{N: len(candidate.Vec), Inc: 1, Data: candidate.Vec}
	if a.N != b.N || a.N == 0 {
		return 0
	}
	dot := blas64.Dot(a, b)
	na := blas64.Nrm2(a)
	nb := blas64.Nrm2(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}
