// Package agent bundles a completion model handle with the static and
// dynamic context an agent offers to the prompt engine on every turn.
package agent

import (
	"context"
	"encoding/json"

	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/tool"
	"github.com/rigflow/core/vectorstore"
)

// DynamicContextSource retrieves up to Samples documents relevant to a
// prompt's rag_text, to be appended to the outgoing request's
// Documents.
type DynamicContextSource struct {
	Samples uint64
	Index   vectorstore.Index[message.Document, any]
}

// DynamicToolsSource retrieves up to Samples tool ids relevant to a
// prompt's rag_text, looked up in ToolSet and appended to the outgoing
// request's Tools.
type DynamicToolsSource struct {
	Samples uint64
	Index   vectorstore.Index[string, any]
}

// Agent is the static description of one participant in a prompt
// engine run: a model handle plus the preamble, documents, tools,
// sampling parameters, and dynamic retrieval sources it contributes to
// every request built on its behalf.
type Agent[R any] struct {
	Model       completion.Model[R]
	Preamble    string
	Documents   []message.Document
	StaticTools []message.ToolDefinition
	Temperature *float64
	MaxTokens   *uint64

	Tools *tool.Set

	DynamicContext *DynamicContextSource
	DynamicTools   *DynamicToolsSource

	AdditionalParams json.RawMessage
}

// Builder constructs an Agent via chained setters, mirroring the
// builder-with-defaults idiom the completion and vectorstore request
// builders use.
type Builder[R any] struct {
	agent Agent[R]
}

// NewBuilder seeds a Builder from the one required field, the model
// handle every request it builds will dispatch through.
func NewBuilder[R any](model completion.Model[R]) *Builder[R] {
	return &Builder[R]{agent: Agent[R]{Model: model, Tools: tool.NewSet()}}
}

func (b *Builder[R]) Preamble(preamble string) *Builder[R] {
	b.agent.Preamble = preamble
	return b
}

func (b *Builder[R]) WithDocument(doc message.Document) *Builder[R] {
	b.agent.Documents = append(b.agent.Documents, doc)
	return b
}

func (b *Builder[R]) WithStaticTool(def message.ToolDefinition) *Builder[R] {
	b.agent.StaticTools = append(b.agent.StaticTools, def)
	return b
}

func (b *Builder[R]) WithTool(t tool.Tool) *Builder[R] {
	b.agent.Tools.AddTool(t)
	return b
}

func (b *Builder[R]) WithEmbeddingTool(t tool.Embedding) *Builder[R] {
	b.agent.Tools.AddEmbeddingTool(t)
	return b
}

func (b *Builder[R]) Temperature(temp float64) *Builder[R] {
	b.agent.Temperature = &temp
	return b
}

func (b *Builder[R]) MaxTokens(max uint64) *Builder[R] {
	b.agent.MaxTokens = &max
	return b
}

func (b *Builder[R]) WithDynamicContext(samples uint64, index vectorstore.Index[message.Document, any]) *Builder[R] {
	b.agent.DynamicContext = &DynamicContextSource{Samples: samples, Index: index}
	return b
}

func (b *Builder[R]) WithDynamicTools(samples uint64, index vectorstore.Index[string, any]) *Builder[R] {
	b.agent.DynamicTools = &DynamicToolsSource{Samples: samples, Index: index}
	return b
}

func (b *Builder[R]) AdditionalParams(params json.RawMessage) *Builder[R] {
	b.agent.AdditionalParams = params
	return b
}

// Build returns the assembled Agent. Agent construction never fails:
// every field is optional except the model supplied to NewBuilder.
func (b *Builder[R]) Build() Agent[R] {
	return b.agent
}

// ResolveContext embeds prompt via DynamicContext's index's embedding
// model implicitly (through the index's own TopN) and returns the
// matched documents. Returns nil, nil if no DynamicContextSource is
// configured.
func (a *Agent[R]) ResolveContext(ctx context.Context, prompt string) ([]message.Document, error) {
	if a.DynamicContext == nil {
		return nil, nil
	}
	req, err := vectorstore.NewSearchRequestBuilder[any](prompt, a.DynamicContext.Samples).Build()
	if err != nil {
		return nil, err
	}
	results, err := a.DynamicContext.Index.TopN(ctx, req)
	if err != nil {
		return nil, err
	}
	docs := make([]message.Document, len(results))
	for i, r := range results {
		docs[i] = r.Payload
	}
	return docs, nil
}

// ResolveTools queries DynamicTools' index for tool ids relevant to
// prompt, looks each up in a.Tools, and returns their definitions.
// Returns nil, nil if no DynamicToolsSource is configured.
func (a *Agent[R]) ResolveTools(ctx context.Context, prompt string) ([]message.ToolDefinition, error) {
	if a.DynamicTools == nil {
		return nil, nil
	}
	req, err := vectorstore.NewSearchRequestBuilder[any](prompt, a.DynamicTools.Samples).Build()
	if err != nil {
		return nil, err
	}
	results, err := a.DynamicTools.Index.TopN(ctx, req)
	if err != nil {
		return nil, err
	}

	defs := make([]message.ToolDefinition, 0, len(results))
	for _, r := range results {
		typ, ok := a.Tools.Get(r.Payload)
		if !ok {
			continue
		}
		def, err := typ.Tool().Definition(ctx, prompt)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
