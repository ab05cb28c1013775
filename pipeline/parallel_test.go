package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallel_CollectsOutputsInOpOrder(t *testing.T) {
	upper := Map(func(s string) string { return s + "!" })
	lower := Map(func(s string) string { return s + "?" })
	op := Parallel(upper, lower)

	out, err := op.Call(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, []string{"hi!", "hi?"}, out)
}

func TestParallel_PropagatesFirstBranchError(t *testing.T) {
	boom := errors.New("branch failed")
	ok := Map(func(s string) string { return s })
	failing := Then(func(ctx context.Context, s string) (string, error) { return "", boom })
	op := Parallel(ok, failing)

	_, err := op.Call(context.Background(), "hi")
	require.ErrorIs(t, err, boom)
}
