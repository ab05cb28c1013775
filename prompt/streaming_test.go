package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rigflow/core/agent"
	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/streaming"
)

// scriptedTurn is one scriptedStreamModel call's worth of choices plus
// its terminal value: exactly one of final/err is used.
type scriptedTurn struct {
	choices []streaming.RawStreamingChoice
	final   streaming.FinalResponse[string]
	err     error
}

type scriptedStreamModel struct {
	turns []scriptedTurn
	calls int
}

func (m *scriptedStreamModel) Stream(ctx context.Context, req completion.Request) (streaming.Response[string], error) {
	turn := m.turns[m.calls]
	m.calls++

	choices := make(chan streaming.RawStreamingChoice, len(turn.choices))
	final := make(chan streaming.FinalResponse[string], 1)
	errs := make(chan error, 1)

	for _, c := range turn.choices {
		choices <- c
	}
	close(choices)

	if turn.err != nil {
		errs <- turn.err
	} else {
		final <- turn.final
	}

	return streaming.Response[string]{Choices: choices, Final: final, Errs: errs}, nil
}

func drainEvents(events <-chan Event) []string {
	var texts []string
	for ev := range events {
		if text, ok := ev.Text(); ok {
			texts = append(texts, text)
		}
	}
	return texts
}

func TestEngine_RunStreamingForwardsTextAndReturnsDone(t *testing.T) {
	model := &scriptedStreamModel{turns: []scriptedTurn{
		{
			choices: []streaming.RawStreamingChoice{
				streaming.MessageChunk("hel"),
				streaming.MessageChunk("lo"),
			},
			final: streaming.FinalResponse[string]{Usage: message.Usage{OutputTokens: 3}},
		},
	}}
	ag := agent.NewBuilder[string](nil).Build()
	engine := NewEngine[string](nil)

	sr := engine.RunStreaming(context.Background(), ag, model, message.NewUserMessage(message.UserText("hi")), nil, 5, nil, nil)

	texts := drainEvents(sr.Events)
	require.Equal(t, []string{"hel", "lo"}, texts)

	select {
	case result := <-sr.Done:
		require.Equal(t, "hello", result.Text)
		require.Equal(t, int64(3), result.Usage.OutputTokens)
	case err := <-sr.Errs:
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEngine_RunStreamingDispatchesToolCallAcrossTurns(t *testing.T) {
	model := &scriptedStreamModel{turns: []scriptedTurn{
		{
			choices: []streaming.RawStreamingChoice{
				streaming.ToolCallChoice(streaming.RawStreamingToolCall{
					ID:             "call_1",
					InternalCallID: "ic_1",
					Function:       message.FunctionCall{Name: "echo", Arguments: []byte(`{}`)},
				}),
			},
			final: streaming.FinalResponse[string]{},
		},
		{
			choices: []streaming.RawStreamingChoice{streaming.MessageChunk("done")},
			final:   streaming.FinalResponse[string]{},
		},
	}}
	ag := agent.NewBuilder[string](nil).
		WithTool(&fixedTool{name: "echo", output: "echoed"}).
		Build()
	engine := NewEngine[string](nil)

	sr := engine.RunStreaming(context.Background(), ag, model, message.NewUserMessage(message.UserText("go")), nil, 5, nil, nil)
	drainEvents(sr.Events)

	select {
	case result := <-sr.Done:
		require.Equal(t, "done", result.Text)
		require.Equal(t, 4, result.ChatHistory.Len())
	case err := <-sr.Errs:
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEngine_RunStreamingPropagatesStreamError(t *testing.T) {
	model := &scriptedStreamModel{turns: []scriptedTurn{
		{err: errBoomStream},
	}}
	ag := agent.NewBuilder[string](nil).Build()
	engine := NewEngine[string](nil)

	sr := engine.RunStreaming(context.Background(), ag, model, message.NewUserMessage(message.UserText("go")), nil, 5, nil, nil)
	drainEvents(sr.Events)

	select {
	case err := <-sr.Errs:
		require.ErrorIs(t, err, errBoomStream)
	case <-sr.Done:
		t.Fatal("expected an error, got a result")
	}
}

var errBoomStream = errBoom("stream exploded")

type errBoom string

func (e errBoom) Error() string { return string(e) }
