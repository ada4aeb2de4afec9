package eval

import (
	"context"
	"runtime"

	"github.com/npillmayer/nurbs"
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of parameters handed to one goroutine.
const minChunk = 64

// ForEach calls f(i) for i in [0,n), distributing the indices over at most
// GOMAXPROCS goroutines. Each index is visited exactly once. f must only
// write to storage owned by index i.
// ForEach stops early and returns the context's error if ctx is cancelled.
func ForEach(ctx context.Context, n int, f func(i int)) error {
	if n <= minChunk {
		for i := range n {
			f(i)
		}
		return ctx.Err()
	}
	workers := runtime.GOMAXPROCS(0)
	chunk := max(minChunk, (n+workers-1)/workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				f(i)
			}
			return nil
		})
	}
	err := g.Wait()
	tracer().Debugf("evaluated %d parameters in chunks of %d", n, chunk)
	return err
}

// CurvePointsParallel is like CurvePoints, but evaluates concurrently.
// Parameters are independent of each other, so results are identical to
// the sequential version.
func CurvePointsParallel(ctx context.Context, P []nurbs.Point, p int, U []float64, u []float64) ([]nurbs.Point, error) {
	pts := make([]nurbs.Point, len(u))
	err := ForEach(ctx, len(u), func(i int) {
		pts[i] = CurvePoint(P, p, U, u[i])
	})
	if err != nil {
		return nil, err
	}
	return pts, nil
}

// SurfacePointsParallel is like SurfacePoints, but evaluates concurrently.
func SurfacePointsParallel(ctx context.Context, P Grid, p, q int, U, V []float64, uv []UV) ([]nurbs.Point, error) {
	pts := make([]nurbs.Point, len(uv))
	err := ForEach(ctx, len(uv), func(i int) {
		pts[i] = SurfacePoint(P, p, q, U, V, uv[i].U, uv[i].V)
	})
	if err != nil {
		return nil, err
	}
	return pts, nil
}
