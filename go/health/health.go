// Package health serves the liveness and readiness probes of the server.
package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Check reports whether a dependency is healthy.
type Check func(context.Context) error

// CombineChecks combines several checks into a single one that runs them in parallel.
func CombineChecks(checks ...Check) Check {
	return func(ctx context.Context) error {
		if len(checks) == 0 {
			return nil
		}
		errGroup, groupCtx := errgroup.WithContext(ctx)
		for _, check := range checks {
			errGroup.Go(func() error { return check(groupCtx) })
		}
		return errGroup.Wait()
	}
}
