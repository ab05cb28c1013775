package vectorstore

import (
	"container/heap"
	"context"
	"fmt"
	"sync"

	"github.com/rigflow/core/embedding"
	"github.com/rigflow/core/oneormany"
)

// InMemoryVectorStore is the core reference VectorStoreIndex
// implementation: a mapping from string id to (payload, embeddings).
// TopN picks the best-scoring embedding per document, then selects the
// top Samples via a bounded min-heap of size Samples, per spec §4.4.
type InMemoryVectorStore[T any] struct {
	mu       sync.RWMutex
	embedder embedding.Model
	distance embedding.Distance
	entries  map[string]inMemoryEntry[T]
}

type inMemoryEntry[T any] struct {
	payload    T
	properties map[string]any
	embeddings oneormany.OneOrMany[embedding.Embedding]
}

// NewInMemoryVectorStore constructs an empty store backed by embedder.
// If distance is nil, embedding.CosineDistance is used.
func NewInMemoryVectorStore[T any](embedder embedding.Model, distance embedding.Distance) *InMemoryVectorStore[T] {
	if distance == nil {
		distance = embedding.CosineDistance
	}
	return &InMemoryVectorStore[T]{
		embedder: embedder,
		distance: distance,
		entries:  make(map[string]inMemoryEntry[T]),
	}
}

// Add inserts or replaces the entry for id. properties is the flat
// key/value map the Filter DSL evaluates against; pass nil if this
// document carries no filterable metadata.
func (s *InMemoryVectorStore[T]) Add(id string, payload T, properties map[string]any, embeddings oneormany.OneOrMany[embedding.Embedding]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = inMemoryEntry[T]{payload: payload, properties: properties, embeddings: embeddings}
}

// Remove deletes the entry for id, if present.
func (s *InMemoryVectorStore[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports the number of indexed documents.
func (s *InMemoryVectorStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

type scoredHeapItem struct {
	score float64
	id    string
}

// scoredHeap is a bounded min-heap: Pop always removes the current
// lowest score, so capping pushes at Samples keeps only the top Samples
// scores seen so far.
type scoredHeap []scoredHeapItem

func (h scoredHeap) Len() int            { return len(h) }
func (h scoredHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h scoredHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x any)         { *h = append(*h, x.(scoredHeapItem)) }
func (h *scoredHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopN embeds req.Query, scores every entry satisfying req.Filter by the
// best-scoring embedding among its embeddings, and returns the top
// req.Samples results above req.Threshold in descending-score order.
func (s *InMemoryVectorStore[T]) TopN(ctx context.Context, req SearchRequest[any]) ([]ScoredResult[T], error) {
	ids, err := s.topNIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScoredResult[T], len(ids))
	for i, sid := range ids {
		out[i] = ScoredResult[T]{Score: sid.Score, ID: sid.ID, Payload: s.entries[sid.ID].payload}
	}
	return out, nil
}

// TopNIDs is TopN without materialising payloads.
func (s *InMemoryVectorStore[T]) TopNIDs(ctx context.Context, req SearchRequest[any]) ([]ScoredID, error) {
	return s.topNIDs(ctx, req)
}

func (s *InMemoryVectorStore[T]) topNIDs(ctx context.Context, req SearchRequest[any]) ([]ScoredID, error) {
	if req.Samples < 1 {
		return nil, fmt.Errorf("vectorstore: samples must be >= 1")
	}
	query, err := embedding.EmbedOne(ctx, s.embedder, req.Query)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embedding query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	h := &scoredHeap{}
	heap.Init(h)

	for id, entry := range s.entries {
		if req.Filter != nil && !EvaluateFilter(*req.Filter, entry.properties) {
			continue
		}
		best := bestScore(query.Vec, entry.embeddings, s.distance)
		if req.Threshold != nil && best < *req.Threshold {
			continue
		}
		heap.Push(h, scoredHeapItem{score: best, id: id})
		for h.Len() > int(req.Samples) {
			heap.Pop(h)
		}
	}

	items := make([]scoredHeapItem, h.Len())
	copy(items, *h)
	for i := len(items) - 1; i >= 0; i-- {
		items[i] = heap.Pop(h).(scoredHeapItem)
	}
	out := make([]ScoredID, len(items))
	for i, it := range items {
		out[i] = ScoredID{Score: it.score, ID: it.id}
	}
	return out, nil
}

func bestScore(query []float64, embeddings oneormany.OneOrMany[embedding.Embedding], distance embedding.Distance) float64 {
	best := distance(query, embeddings.First())
	for _, e := range embeddings.Rest() {
		if d := distance(query, e); d > best {
			best = d
		}
	}
	return best
}

