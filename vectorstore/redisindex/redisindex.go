// Package redisindex is a Redis-backed VectorStoreIndex. Redis has no
// native vector search without the RediSearch module, so this backend
// stores each document's payload and embeddings as a JSON blob in a
// hash and scores candidates client-side — the same brute-force
// approach the core's InMemoryVectorStore takes, just durable across
// process restarts.
package redisindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rigflow/core/embedding"
	"github.com/rigflow/core/oneormany"
	"github.com/rigflow/core/vectorstore"
)

const fieldPayload = "payload"

type storedEntry struct {
	Properties map[string]any        `json:"properties"`
	Embeddings []embedding.Embedding `json:"embeddings"`
	Payload    json.RawMessage       `json:"payload"`
}

// Index implements vectorstore.Index[T, any] atop a single Redis hash
// (the key given to New); each document is one hash field holding its
// JSON-encoded storedEntry.
type Index[T any] struct {
	client   redis.Cmdable
	key      string
	embedder embedding.Model
	distance embedding.Distance
}

// New constructs an Index. key is the Redis hash key all of this index's
// documents live under.
func New[T any](client redis.Cmdable, key string, embedder embedding.Model, distance embedding.Distance) *Index[T] {
	if distance == nil {
		distance = embedding.CosineDistance
	}
	return &Index[T]{client: client, key: key, embedder: embedder, distance: distance}
}

// Add upserts a document. payload is marshalled to JSON for storage and
// unmarshalled back into T on TopN.
func (idx *Index[T]) Add(ctx context.Context, id string, payload T, properties map[string]any, embeddings oneormany.OneOrMany[embedding.Embedding]) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("redisindex: marshal payload: %w", err)
	}
	entry := storedEntry{Properties: properties, Embeddings: embeddings.Slice(), Payload: payloadJSON}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redisindex: marshal entry: %w", err)
	}
	return idx.client.HSet(ctx, idx.key, id, data).Err()
}

// Remove deletes a document.
func (idx *Index[T]) Remove(ctx context.Context, id string) error {
	return idx.client.HDel(ctx, idx.key, id).Err()
}

// TopN implements vectorstore.Index.
func (idx *Index[T]) TopN(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredResult[T], error) {
	entries, err := idx.scan(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := idx.rank(ctx, req, entries)
	if err != nil {
		return nil, err
	}
	out := make([]vectorstore.ScoredResult[T], len(ids))
	for i, sid := range ids {
		var payload T
		if err := json.Unmarshal(entries[sid.ID].Payload, &payload); err != nil {
			return nil, fmt.Errorf("redisindex: unmarshal payload for %q: %w", sid.ID, err)
		}
		out[i] = vectorstore.ScoredResult[T]{Score: sid.Score, ID: sid.ID, Payload: payload}
	}
	return out, nil
}

// TopNIDs implements vectorstore.Index without materialising payloads.
func (idx *Index[T]) TopNIDs(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredID, error) {
	entries, err := idx.scan(ctx)
	if err != nil {
		return nil, err
	}
	return idx.rank(ctx, req, entries)
}

func (idx *Index[T]) scan(ctx context.Context) (map[string]storedEntry, error) {
	raw, err := idx.client.HGetAll(ctx, idx.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redisindex: HGETALL %s: %w", idx.key, err)
	}
	entries := make(map[string]storedEntry, len(raw))
	for id, data := range raw {
		var entry storedEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("redisindex: unmarshal entry %q: %w", id, err)
		}
		entries[id] = entry
	}
	return entries, nil
}

func (idx *Index[T]) rank(ctx context.Context, req vectorstore.SearchRequest[any], entries map[string]storedEntry) ([]vectorstore.ScoredID, error) {
	if req.Samples < 1 {
		return nil, fmt.Errorf("redisindex: samples must be >= 1")
	}
	query, err := embedding.EmbedOne(ctx, idx.embedder, req.Query)
	if err != nil {
		return nil, fmt.Errorf("redisindex: embedding query: %w", err)
	}

	var scored []vectorstore.ScoredID
	for id, entry := range entries {
		if req.Filter != nil && !vectorstore.EvaluateFilter(*req.Filter, entry.Properties) {
			continue
		}
		if len(entry.Embeddings) == 0 {
			continue
		}
		best := idx.distance(query.Vec, entry.Embeddings[0])
		for _, e := range entry.Embeddings[1:] {
			if d := idx.distance(query.Vec, e); d > best {
				best = d
			}
		}
		if req.Threshold != nil && best < *req.Threshold {
			continue
		}
		scored = append(scored, vectorstore.ScoredID{Score: best, ID: id})
	}

	sortDescending(scored)
	if uint64(len(scored)) > req.Samples {
		scored = scored[:req.Samples]
	}
	return scored, nil
}

func sortDescending(scored []vectorstore.ScoredID) {
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].Score > scored[j-1].Score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}
}
