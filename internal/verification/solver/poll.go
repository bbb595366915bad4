package solver

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Poller paces result polling against a solver's task endpoint.
type Poller struct {
	InitialDelay time.Duration
	Interval     time.Duration
}

// Poll waits InitialDelay, then calls check at most once per Interval until
// it reports done, returns an error, or ctx ends.
func (p Poller) Poll(ctx context.Context, check func(ctx context.Context) (done bool, err error)) error {
	if p.InitialDelay > 0 {
		t := time.NewTimer(p.InitialDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	limit := rate.Inf
	if p.Interval > 0 {
		limit = rate.Every(p.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// The next poll would land past the deadline.
			return context.DeadlineExceeded
		}
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
