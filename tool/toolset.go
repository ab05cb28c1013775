package tool

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rigflow/core/message"
)

// redactedArgKeys names argument fields stripped from Call's debug log
// before the summary is emitted, so a tool accepting credentials as a
// parameter (an API key, a bearer token) never lands in application logs.
var redactedArgKeys = []string{"password", "token", "secret", "api_key", "apikey"}

// Set is a thread-safe mapping from tool name to Type, the dispatch
// table an Agent and the prompt engine call through.
type Set struct {
	mu    sync.RWMutex
	tools map[string]Type
}

// NewSet constructs an empty Set.
func NewSet() *Set {
	return &Set{tools: make(map[string]Type)}
}

// AddTool registers t under t.Name(), replacing any existing
// registration with that name.
func (s *Set) AddTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[t.Name()] = Simple(t)
}

// AddEmbeddingTool registers an embedding-capable tool.
func (s *Set) AddEmbeddingTool(t Embedding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[t.Name()] = FromEmbedding(t)
}

// AddTools merges every entry of other into s, replacing on name
// collision.
func (s *Set) AddTools(other *Set) {
	other.mu.RLock()
	entries := make(map[string]Type, len(other.tools))
	for name, t := range other.tools {
		entries[name] = t
	}
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, t := range entries {
		s.tools[name] = t
	}
}

// Contains reports whether name is registered.
func (s *Set) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tools[name]
	return ok
}

// Get returns the Type registered under name, if any.
func (s *Set) Get(name string) (Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// Definitions collects every registered tool's current definition,
// calling each tool's Definition in turn and stopping at the first
// error. prompt is forwarded to each tool's Definition call.
func (s *Set) Definitions(ctx context.Context, prompt string) ([]message.ToolDefinition, error) {
	s.mu.RLock()
	tools := make([]Type, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	s.mu.RUnlock()

	defs := make([]message.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		def, err := t.Tool().Definition(ctx, prompt)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Call dispatches to the named tool, converting a missing tool or a
// tool-returned error into an *Error. argsJSON is passed through
// verbatim; argument decoding is each tool's own responsibility. Every
// error a tool returns, a JSONError included, comes back wrapped in a
// CallError, so Call itself never returns an *Error of KindJSON.
func (s *Set) Call(ctx context.Context, name string, argsJSON string) (string, error) {
	s.mu.RLock()
	t, ok := s.tools[name]
	s.mu.RUnlock()
	if !ok {
		return "", NotFound(name)
	}
	slog.Debug("tool.Call", "name", name, "args", redactArgs(argsJSON))
	out, err := t.Tool().Call(ctx, argsJSON)
	if err != nil {
		return "", CallError(name, err)
	}
	return out, nil
}

// Schema is one entry of Schemas' output: a tool's name, description,
// and JSON-schema parameters, suitable for building dynamic-tool
// embeddings.
type Schema struct {
	Name        string
	Description string
	Parameters  []byte
}

// Schemas returns (name, description, parameters) for every registered
// tool, using the prompt-independent definition (empty prompt).
func (s *Set) Schemas(ctx context.Context) ([]Schema, error) {
	s.mu.RLock()
	tools := make([]Type, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	s.mu.RUnlock()

	out := make([]Schema, 0, len(tools))
	for _, t := range tools {
		def, err := t.Tool().Definition(ctx, "")
		if err != nil {
			return nil, err
		}
		out = append(out, Schema{Name: def.Name, Description: def.Description, Parameters: def.Parameters})
	}
	return out, nil
}

// Len reports the number of registered tools.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

// redactArgs walks argsJSON with gjson, overwriting any top-level key in
// redactedArgKeys with a fixed placeholder via sjson, so Call's debug
// log never carries a credential a tool happened to accept as an
// argument. Non-object or malformed args pass through unredacted since
// there is nothing to redact by key.
func redactArgs(argsJSON string) string {
	if !gjson.Valid(argsJSON) || !gjson.Parse(argsJSON).IsObject() {
		return argsJSON
	}
	redacted := argsJSON
	for _, key := range redactedArgKeys {
		if !gjson.Get(redacted, key).Exists() {
			continue
		}
		next, err := sjson.Set(redacted, key, "[redacted]")
		if err != nil {
			continue
		}
		redacted = next
	}
	return redacted
}
