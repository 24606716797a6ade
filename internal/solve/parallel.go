package solve

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"regionck/internal/trace"
)

// SolveAll solves independent problems concurrently with at most jobs
// workers (GOMAXPROCS when jobs <= 0). Results keep the order of problems.
// A broken region-core contract aborts only the affected analysis and is
// returned as an error.
func SolveAll(ctx context.Context, problems []*Problem, jobs int) ([]*Solution, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*Solution, len(problems))
	if len(problems) == 0 {
		return results, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "solve_all", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(problems)))
	for i, p := range problems {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("function %s: region contract violated: %v", p.Name(), r)
				}
			}()
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sol, err := Solve(gctx, p)
			if err != nil {
				return err
			}
			results[i] = sol
			return nil
		})
	}
	err := g.Wait()
	span.End(fmt.Sprintf("%d functions", len(problems)))
	if err != nil {
		return nil, err
	}
	return results, nil
}
