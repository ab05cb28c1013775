// Package tool defines the provider-neutral tool contract and the
// ToolSet dispatch table an Agent/prompt engine calls through. Tools
// can declare a static definition or one that depends on the prompt
// they are about to be offered alongside.
package tool

import (
	"context"

	"github.com/rigflow/core/message"
)

// Tool is a callable the model may invoke by name.
type Tool interface {
	// Name is the stable identifier the model and ToolSet key on.
	Name() string

	// Definition returns this tool's schema. prompt is the text the
	// tool is about to be offered alongside, permitting
	// prompt-dependent definitions (e.g. narrowing an enum of valid
	// arguments based on context).
	Definition(ctx context.Context, prompt string) (message.ToolDefinition, error)

	// Call executes the tool against a JSON-encoded arguments object,
	// returning the textual result the model will see.
	Call(ctx context.Context, argsJSON string) (string, error)
}

// Embedding is a Tool that can also be indexed into a vector store so
// an agent's dynamic-tools source can retrieve it by relevance rather
// than always offering it statically.
type Embedding interface {
	Tool

	// EmbeddingDocs returns the text(s) this tool should be embedded
	// under for retrieval purposes (e.g. example invocations).
	EmbeddingDocs() []string

	// Context returns a serialisable payload identifying this tool,
	// stored alongside its embeddings so the tool can be rehydrated
	// from a vector index lookup.
	Context() any
}

// Type is the closed ToolType variant a ToolSet stores per name: either
// a plain Tool or one that also supports embedding-based retrieval.
type Type struct {
	simple    Tool
	embedding Embedding
}

// Simple wraps a plain Tool as a Type.
func Simple(t Tool) Type { return Type{simple: t} }

// FromEmbedding wraps an Embedding-capable tool as a Type.
func FromEmbedding(t Embedding) Type { return Type{embedding: t} }

// IsEmbedding reports whether this Type carries embedding-retrieval
// capability.
func (t Type) IsEmbedding() bool { return t.embedding != nil }

// Tool returns the underlying Tool regardless of variant.
func (t Type) Tool() Tool {
	if t.embedding != nil {
		return t.embedding
	}
	return t.simple
}

// Embedding returns the underlying Embedding tool and true if this
// Type carries embedding-retrieval capability.
func (t Type) Embedding() (Embedding, bool) {
	return t.embedding, t.embedding != nil
}
