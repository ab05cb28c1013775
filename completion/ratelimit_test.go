package completion

import (
	"context"
	"testing"

	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	calls int
}

func (m *stubModel) Completion(ctx context.Context, req Request) (Response[string], error) {
	m.calls++
	return Response[string]{
		Choice: oneormany.New(message.AssistantText("ok")),
	}, nil
}

func TestRateLimitedModel_DelegatesToInner(t *testing.T) {
	stub := &stubModel{}
	limited := NewRateLimitedModel[string](stub, 100, 10)

	history := historyOf(t, message.NewUserMessage(message.UserText("hi")))
	req, err := NewRequestBuilder(history).Build()
	require.NoError(t, err)

	resp, err := limited.Completion(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Text())
	require.Equal(t, 1, stub.calls)
}

func TestRateLimitedModel_RespectsContextCancellation(t *testing.T) {
	stub := &stubModel{}
	limited := NewRateLimitedModel[string](stub, 0.0001, 1)

	history := historyOf(t, message.NewUserMessage(message.UserText("hi")))
	req, err := NewRequestBuilder(history).Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = limited.Completion(ctx, req)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
