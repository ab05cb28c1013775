package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel fans the same input out to every op concurrently and
// collects their outputs in op order, the Go rendering of the
// original's parallel! macro. Go generics cannot express a
// heterogeneous output tuple without per-arity code generation, so
// Parallel requires every branch to share an output type O and
// returns []O instead of a tuple; callers needing distinct branch
// types compose separate Parallel calls or post-process with Map.
//
// Cancellation and first-error propagation follow errgroup.Group: the
// first branch to fail cancels the group's derived context and its
// error is returned, mirroring the concurrent tool-dispatch group in
// the prompt package.
func Parallel[I, O any](ops ...Op[I, O]) Op[I, []O] {
	return OpFunc[I, []O](func(ctx context.Context, input I) ([]O, error) {
		out := make([]O, len(ops))
		g, gctx := errgroup.WithContext(ctx)
		for i, op := range ops {
			i, op := i, op
			g.Go(func() error {
				result, err := op.Call(gctx, input)
				if err != nil {
					return err
				}
				out[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}
