package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
	"github.com/rigflow/core/vectorstore"
)

type stubModel struct{}

func (stubModel) Completion(ctx context.Context, req completion.Request) (completion.Response[string], error) {
	return completion.Response[string]{
		Choice: oneormany.New(message.AssistantContent{}),
	}, nil
}

type stubDocIndex struct {
	docs []vectorstore.ScoredResult[message.Document]
}

func (s stubDocIndex) TopN(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredResult[message.Document], error) {
	return s.docs, nil
}
func (s stubDocIndex) TopNIDs(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredID, error) {
	return nil, nil
}

type stubToolIndex struct {
	ids []vectorstore.ScoredResult[string]
}

func (s stubToolIndex) TopN(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredResult[string], error) {
	return s.ids, nil
}
func (s stubToolIndex) TopNIDs(ctx context.Context, req vectorstore.SearchRequest[any]) ([]vectorstore.ScoredID, error) {
	return nil, nil
}

func TestBuilder_BuildAssemblesAgent(t *testing.T) {
	a := NewBuilder[string](stubModel{}).
		Preamble("you are helpful").
		Temperature(0.5).
		MaxTokens(100).
		Build()

	require.Equal(t, "you are helpful", a.Preamble)
	require.NotNil(t, a.Temperature)
	require.Equal(t, 0.5, *a.Temperature)
	require.NotNil(t, a.MaxTokens)
	require.Equal(t, uint64(100), *a.MaxTokens)
	require.NotNil(t, a.Tools)
}

func TestAgent_ResolveContextReturnsNilWithoutSource(t *testing.T) {
	a := NewBuilder[string](stubModel{}).Build()
	docs, err := a.ResolveContext(context.Background(), "hello")
	require.NoError(t, err)
	require.Nil(t, docs)
}

func TestAgent_ResolveContextQueriesIndex(t *testing.T) {
	idx := stubDocIndex{docs: []vectorstore.ScoredResult[message.Document]{
		{Score: 0.9, ID: "d1", Payload: message.Document{MediaType: "text/plain"}},
	}}
	a := NewBuilder[string](stubModel{}).WithDynamicContext(3, idx).Build()

	docs, err := a.ResolveContext(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "text/plain", docs[0].MediaType)
}

func TestAgent_ResolveToolsLooksUpAndDefines(t *testing.T) {
	a := NewBuilder[string](stubModel{}).WithTool(&echoTool{name: "echo"}).Build()
	idx := stubToolIndex{ids: []vectorstore.ScoredResult[string]{{Score: 0.8, ID: "echo", Payload: "echo"}}}
	a.DynamicTools = &DynamicToolsSource{Samples: 1, Index: idx}

	defs, err := a.ResolveTools(context.Background(), "do the thing")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "echo", defs[0].Name)
}

func TestAgent_ResolveToolsSkipsUnregisteredHits(t *testing.T) {
	a := NewBuilder[string](stubModel{}).Build()
	idx := stubToolIndex{ids: []vectorstore.ScoredResult[string]{{Score: 0.8, ID: "ghost", Payload: "ghost"}}}
	a.DynamicTools = &DynamicToolsSource{Samples: 1, Index: idx}

	defs, err := a.ResolveTools(context.Background(), "do the thing")
	require.NoError(t, err)
	require.Empty(t, defs)
}

type echoTool struct{ name string }

func (t *echoTool) Name() string { return t.name }
func (t *echoTool) Definition(ctx context.Context, prompt string) (message.ToolDefinition, error) {
	return message.ToolDefinition{Name: t.name}, nil
}
func (t *echoTool) Call(ctx context.Context, argsJSON string) (string, error) {
	return argsJSON, nil
}
