package compile

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/resolve"
)

// buildInstantiations expands con once per combo. With Options.Parallel it
// fans the work out across a bounded errgroup of goroutines; either way the
// results land in out at their combos index, so the caller's insertion into
// the ordered matrix stays in declaration-and-Cartesian order regardless of
// which path ran (§5).
func buildInstantiations(con gmpl.Constraint, combos []resolve.Combo, lk *resolve.Lookups, opts Options) ([]builtInstantiation, error) {
	out := make([]builtInstantiation, len(combos))

	if !opts.Parallel || len(combos) < 2 {
		for i, combo := range combos {
			bi, err := buildInstantiation(con, combo, lk)
			if err != nil {
				return nil, err
			}

			out[i] = bi
		}

		return out, nil
	}

	workers := min(runtime.GOMAXPROCS(0), len(combos))

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, combo := range combos {
		i, combo := i, combo

		g.Go(func() error {
			bi, err := buildInstantiation(con, combo, lk)
			if err != nil {
				return err
			}

			out[i] = bi

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
