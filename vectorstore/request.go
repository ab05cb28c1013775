package vectorstore

import (
	"encoding/json"
	"fmt"
)

// BuilderError reports an invalid combination of options passed to
// NewSearchRequestBuilder.
type BuilderError struct {
	Field  string
	Reason string
}

func (e *BuilderError) Error() string {
	return fmt.Sprintf("vectorstore: invalid %s: %s", e.Field, e.Reason)
}

// SearchRequest is the provider-neutral top-n query, parameterised by
// the backend's filter dialect F.
type SearchRequest[F any] struct {
	Query            string
	Samples          uint64
	Threshold        *float64
	AdditionalParams json.RawMessage
	Filter           *F
}

// SearchRequestBuilder enforces SearchRequest's required fields (query,
// samples >= 1) at construction time rather than on every field setter.
type SearchRequestBuilder[F any] struct {
	req SearchRequest[F]
	err error
}

// NewSearchRequestBuilder seeds a builder from the two mandatory fields.
func NewSearchRequestBuilder[F any](query string, samples uint64) *SearchRequestBuilder[F] {
	b := &SearchRequestBuilder[F]{req: SearchRequest[F]{Query: query, Samples: samples}}
	if query == "" {
		b.err = &BuilderError{Field: "query", Reason: "must not be empty"}
	}
	if samples < 1 {
		b.err = &BuilderError{Field: "samples", Reason: "must be >= 1"}
	}
	return b
}

func (b *SearchRequestBuilder[F]) Threshold(t float64) *SearchRequestBuilder[F] {
	b.req.Threshold = &t
	return b
}

func (b *SearchRequestBuilder[F]) AdditionalParams(params json.RawMessage) *SearchRequestBuilder[F] {
	b.req.AdditionalParams = params
	return b
}

func (b *SearchRequestBuilder[F]) WithFilter(filter F) *SearchRequestBuilder[F] {
	b.req.Filter = &filter
	return b
}

// Build validates and returns the assembled SearchRequest.
func (b *SearchRequestBuilder[F]) Build() (SearchRequest[F], error) {
	if b.err != nil {
		return SearchRequest[F]{}, b.err
	}
	return b.req, nil
}
