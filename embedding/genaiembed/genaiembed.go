// Package genaiembed adapts Google's Gemini embedding models to the
// embedding.Model contract, following the client construction and retry
// conventions of the providers package in the teacher's agent runtime.
package genaiembed

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/rigflow/core/embedding"
)

const defaultMaxBatchSize = 100

// Config configures a Model.
type Config struct {
	APIKey       string
	Model        string // e.g. "text-embedding-004"
	Dimension    int
	MaxRetries   int
	RetryDelay   time.Duration
	MaxBatchSize int
}

// Model implements embedding.Model against the Gemini embedding API.
type Model struct {
	client       *genai.Client
	model        string
	dimension    int
	maxBatchSize int
	maxRetries   int
	retryDelay   time.Duration
}

// New constructs a Model, failing if the client cannot be initialised.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiembed: failed to create client: %w", err)
	}

	return &Model{
		client:       client,
		model:        cfg.Model,
		dimension:    cfg.Dimension,
		maxBatchSize: cfg.MaxBatchSize,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
	}, nil
}

func (m *Model) Name() string      { return "gemini:" + m.model }
func (m *Model) Dimension() int    { return m.dimension }
func (m *Model) MaxBatchSize() int { return m.maxBatchSize }

// EmbedBatch embeds every document, returning one embedding.Embedding per
// input in the same order. Requests exceeding MaxBatchSize are rejected
// rather than silently chunked, so callers control their own batching.
func (m *Model) EmbedBatch(ctx context.Context, documents []string) ([]embedding.Embedding, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if len(documents) > m.maxBatchSize {
		return nil, fmt.Errorf("genaiembed: batch of %d exceeds max batch size %d", len(documents), m.maxBatchSize)
	}

	contents := make([]*genai.Content, len(documents))
	for i, doc := range documents {
		contents[i] = genai.NewContentFromText(doc, genai.RoleUser)
	}

	var resp *genai.EmbedContentResponse
	err := m.retry(ctx, func() error {
		var callErr error
		resp, callErr = m.client.Models.EmbedContent(ctx, m.model, contents, nil)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("genaiembed: embed content: %w", err)
	}
	if len(resp.Embeddings) != len(documents) {
		return nil, fmt.Errorf("genaiembed: expected %d embeddings, got %d", len(documents), len(resp.Embeddings))
	}

	out := make([]embedding.Embedding, len(documents))
	for i, e := range resp.Embeddings {
		vec := make([]float64, len(e.Values))
		for j, v := range e.Values {
			vec[j] = float64(v)
		}
		out[i] = embedding.Embedding{Document: documents[i], Vec: vec}
	}
	return out, nil
}

func (m *Model) retry(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := op(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryDelay * time.Duration(attempt)):
		}
	}
	return lastErr
}
