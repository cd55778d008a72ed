package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/physics"
)

// Compare runs each scheme on its own goroutine from the same initial
// state. Results are returned in the order of schemes. Per-run metrics are
// not shared across goroutines, so WithMetric options are ignored here.
func Compare(ctx context.Context, schemes []integrators.Scheme, x0 dynamo.State, c physics.Constants, term Termination, opts ...Option) ([]*Result, error) {
	if len(schemes) == 0 {
		return nil, dynamo.Configuration("no schemes to compare")
	}

	results := make([]*Result, len(schemes))
	g, ctx := errgroup.WithContext(ctx)
	for i, scheme := range schemes {
		g.Go(func() error {
			s, err := New(scheme, c, opts...)
			if err != nil {
				return err
			}
			s.metrics = nil
			res, err := s.Run(ctx, x0, term)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
