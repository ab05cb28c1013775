// Package completion defines the provider-neutral completion contract:
// the request/response shapes every model adapter translates to and from
// its own wire format, plus the rate-limiting decorator and structured
// output helper layered on top of any CompletionModel.
package completion

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
)

// BuilderError reports an invalid combination of options passed to a
// builder-style constructor in this package.
type BuilderError struct {
	Field  string
	Reason string
}

func (e *BuilderError) Error() string {
	return fmt.Sprintf("completion: invalid %s: %s", e.Field, e.Reason)
}

// Request is the provider-neutral completion request. Adapters translate
// it to their own wire format; additional_params are merged last and may
// override adapter defaults, with provider-enforced fields (e.g.
// "stream": true) injected after that and never overridable.
type Request struct {
	Preamble         string
	ChatHistory      oneormany.OneOrMany[message.Message]
	Documents        []message.Document
	Tools            []message.ToolDefinition
	Temperature      *float64
	MaxTokens        *uint64
	ToolChoice       *message.ToolChoice
	AdditionalParams json.RawMessage
	OutputSchema     json.RawMessage
}

// RequestBuilder constructs a Request, applying validation at Build time
// rather than on every field setter.
type RequestBuilder struct {
	req Request
	err error
}

// NewRequestBuilder seeds a builder from a non-empty chat history.
func NewRequestBuilder(history oneormany.OneOrMany[message.Message]) *RequestBuilder {
	return &RequestBuilder{req: Request{ChatHistory: history}}
}

func (b *RequestBuilder) Preamble(preamble string) *RequestBuilder {
	b.req.Preamble = preamble
	return b
}

func (b *RequestBuilder) Documents(docs []message.Document) *RequestBuilder {
	b.req.Documents = docs
	return b
}

func (b *RequestBuilder) Tools(tools []message.ToolDefinition) *RequestBuilder {
	b.req.Tools = tools
	return b
}

func (b *RequestBuilder) Temperature(t float64) *RequestBuilder {
	if t < 0 || t > 2 {
		b.err = errors.Join(b.err, &BuilderError{Field: "temperature", Reason: "must be within [0, 2]"})
		return b
	}
	b.req.Temperature = &t
	return b
}

func (b *RequestBuilder) MaxTokens(n uint64) *RequestBuilder {
	if n == 0 {
		b.err = errors.Join(b.err, &BuilderError{Field: "max_tokens", Reason: "must be > 0"})
		return b
	}
	b.req.MaxTokens = &n
	return b
}

func (b *RequestBuilder) ToolChoice(choice message.ToolChoice) *RequestBuilder {
	b.req.ToolChoice = &choice
	return b
}

func (b *RequestBuilder) AdditionalParams(params json.RawMessage) *RequestBuilder {
	b.req.AdditionalParams = params
	return b
}

func (b *RequestBuilder) OutputSchema(schema json.RawMessage) *RequestBuilder {
	b.req.OutputSchema = schema
	return b
}

// Build validates and returns the assembled Request.
func (b *RequestBuilder) Build() (Request, error) {
	if b.err != nil {
		return Request{}, b.err
	}
	if b.req.ChatHistory.Len() == 0 {
		return Request{}, &BuilderError{Field: "chat_history", Reason: "must contain at least one message"}
	}
	if b.req.ToolChoice != nil {
		if name, ok := b.req.ToolChoice.Specific(); ok {
			found := false
			for _, t := range b.req.Tools {
				if t.Name == name {
					found = true
					break
				}
			}
			if !found {
				return Request{}, &BuilderError{Field: "tool_choice", Reason: fmt.Sprintf("names tool %q, which is not among the request's tools", name)}
			}
		}
	}
	return b.req, nil
}

// MergeAdditionalParams shallow-merges override into base, with override
// keys winning per the request's documented precedence: adapter defaults
// are the base, the request's AdditionalParams is the override.
func MergeAdditionalParams(base, override json.RawMessage) (json.RawMessage, error) {
	if len(override) == 0 {
		return base, nil
	}
	if len(base) == 0 {
		return override, nil
	}
	var baseMap, overrideMap map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseMap); err != nil {
		return nil, fmt.Errorf("completion: base additional_params is not a JSON object: %w", err)
	}
	if err := json.Unmarshal(override, &overrideMap); err != nil {
		return nil, fmt.Errorf("completion: override additional_params is not a JSON object: %w", err)
	}
	if baseMap == nil {
		baseMap = map[string]json.RawMessage{}
	}
	for k, v := range overrideMap {
		baseMap[k] = v
	}
	return json.Marshal(baseMap)
}
