// Package sqliteindex is a SQLite-backed VectorStoreIndex using the
// pure-Go modernc.org/sqlite driver. Like the teacher's sqlitevec memory
// backend, it stores embeddings as JSON blobs rather than depending on
// the (CGO-only) vec0 extension, and scores candidates client-side.
package sqliteindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rigflow/core/embedding"
	"github.com/rigflow/core/oneormany"
	"github.com/rigflow/core/vectorstore"
)

// Config configures an Index.
type Config struct {
	// Path to the SQLite database file, or ":memory:" for an ephemeral
	// in-process database.
	Path string
	// Table is the table name this index's documents live in.
	Table string
}

// Index implements vectorstore.Index[T, any] atop a SQLite table.
type Index[T any] struct {
	db       *sql.DB
	table    string
	embedder embedding.Model
	distance embedding.Distance
}

// New opens (creating if necessary) the backing SQLite database and its
// documents table.
func New[T any](cfg Config, embedder embedding.Model, distance embedding.Distance) (*Index[T], error) {
	if cfg.Path == "" {
		cfg.Path = ":memory:"
	}
	if cfg.Table == "" {
		cfg.Table = "vectorstore_documents"
	}
	if distance == nil {
		distance = embedding.CosineDistance
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqliteindex: open %s: %w", cfg.Path, err)
	}

	idx := &Index[T]{db: db, table: cfg.Table, embedder: embedder, distance: distance}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index[T]) init() error {
	_, err := idx.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			properties BLOB,
			embeddings BLOB NOT NULL
		)
	`, idx.table))
	if err != nil {
		return fmt.Errorf("sqliteindex: create table %s: %w", idx.table, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (idx *Index[T]) Close() error { return idx.db.Close() }

// Add upserts a document.
func (idx *Index[T]) Add(ctx context.Context, id string, payload T, properties map[string]any, embeddings oneormany.OneOrMany[embedding.Embedding]) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sqliteindex: marshal payload: %w", err)
	}
	propsJSON, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("sqliteindex: marshal properties: %w", err)
	}
	embJSON, err := json.Marshal(embeddings.Slice())
	if err != nil {
		return fmt.Errorf("sqliteindex: marshal embeddings: %w", err)
	}

	_, err = idx.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, payload, properties, embeddings) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, properties = excluded.properties, embeddings = excluded.embeddings
	`, idx.table), id, payloadJSON, propsJSON, embJSON)
	if err != nil {
		return fmt.Errorf("sqliteindex: upsert %q: %w", id, err)
	}
	return nil
}

// Remove deletes a document by id.
func (idx *Index[T]) Remove(ctx context.Context, id string) error {
	_, err := idx.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, idx.table), id)
	return err
}

type row struct {
	id         string
	payload    json.RawMessage
	properties map[string]any
	embeddings []embedding.Embedding
}

func (idx *Index[T]) scan(ctx context.Context) ([]row, error) {
	rows, err := idx.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, payload, properties, embeddings FROM %s`, idx.table))
	if err != nil {
		return nil, fmt.Errorf("sqliteindex: scan: %w", err)
	}
	defer rows.Close()

	var out []row
	for rows.Next() {
		var r row
		var propsJSON, embJSON []byte
		if err := rows.Scan(&r.id, &r.payload, &propsJSON, &embJSON); err != nil {
			return nil, fmt.Errorf("sqliteindex: scan row: %w", err)
		}
		if len(propsJSON) > 0 {
			if err := json.Unmarshal(propsJSON, &r.properties); err != nil {
				return nil, fmt.Errorf("sqliteindex: unmarshal properties: %w", err)
			}
		}
		if err := json.Unmarshal(embJSON, &r.embeddings); err != nil {
			return nil, fmt.Errorf("sqliteindex: unmarshal embeddings: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopN implements vectorstore.Index.
func (idx *Index[T]) TopN(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredResult[T], error) {
	rows, err := idx.scan(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]row, len(rows))
	for _, r := range rows {
		byID[r.id] = r
	}
	ids, err := idx.rank(ctx, req, rows)
	if err != nil {
		return nil, err
	}
	out := make([]vectorstore.ScoredResult[T], len(ids))
	for i, sid := range ids {
		var payload T
		if err := json.Unmarshal(byID[sid.ID].payload, &payload); err != nil {
			return nil, fmt.Errorf("sqliteindex: unmarshal payload %q: %w", sid.ID, err)
		}
		out[i] = vectorstore.ScoredResult[T]{Score: sid.Score, ID: sid.ID, Payload: payload}
	}
	return out, nil
}

// TopNIDs implements vectorstore.Index without materialising payloads.
func (idx *Index[T]) TopNIDs(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredID, error) {
	rows, err := idx.scan(ctx)
	if err != nil {
		return nil, err
	}
	return idx.rank(ctx, req, rows)
}

func (idx *Index[T]) rank(ctx context.Context, req vectorstore.SearchRequest[any], rows []row) ([]vectorstore.ScoredID, error) {
	if req.Samples < 1 {
		return nil, fmt.Errorf("sqliteindex: samples must be >= 1")
	}
	query, err := embedding.EmbedOne(ctx, idx.embedder, req.Query)
	if err != nil {
		return nil, fmt.Errorf("sqliteindex: embedding query: %w", err)
	}

	var scored []vectorstore.ScoredID
	for _, r := range rows {
		if req.Filter != nil && !vectorstore.EvaluateFilter(*req.Filter, r.properties) {
			continue
		}
		if len(r.embeddings) == 0 {
			continue
		}
		best := idx.distance(query.Vec, r.embeddings[0])
		for _, e := range r.embeddings[1:] {
			if d := idx.distance(query.Vec, e); d > best {
				best = d
			}
		}
		if req.Threshold != nil && best < *req.Threshold {
			continue
		}
		scored = append(scored, vectorstore.ScoredID{Score: best, ID: r.id})
	}

	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].Score > scored[j-1].Score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}
	if uint64(len(scored)) > req.Samples {
		scored = scored[:req.Samples]
	}
	return scored, nil
}
