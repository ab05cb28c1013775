package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap_AppliesPureFunction(t *testing.T) {
	op := Map(func(s string) int { return len(s) })
	out, err := op.Call(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, 5, out)
}

func TestThen_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	op := Then(func(ctx context.Context, s string) (int, error) { return 0, boom })
	_, err := op.Call(context.Background(), "x")
	require.ErrorIs(t, err, boom)
}

func TestPassthrough_ReturnsInputUnchanged(t *testing.T) {
	op := Passthrough[string]()
	out, err := op.Call(context.Background(), "unchanged")
	require.NoError(t, err)
	require.Equal(t, "unchanged", out)
}

func TestPipe_ComposesTwoOps(t *testing.T) {
	toLen := Map(func(s string) int { return len(s) })
	double := Map(func(n int) int { return n * 2 })
	op := Pipe(toLen, double)

	out, err := op.Call(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, 10, out)
}

func TestPipe_ShortCircuitsOnFirstStageError(t *testing.T) {
	boom := errors.New("boom")
	failing := Then(func(ctx context.Context, s string) (int, error) { return 0, boom })
	neverCalled := Map(func(n int) int { t.Fatal("second stage should not run"); return n })
	op := Pipe(failing, neverCalled)

	_, err := op.Call(context.Background(), "x")
	require.ErrorIs(t, err, boom)
}
