package solver

import (
	"context"
	"log/slog"

	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/ports"
	"ptacheck/pkg/platform/circuit"
)

// Failover routes calls to a primary backend and falls back to a secondary
// one while the primary's circuit is open.
//
// Primary failures are triaged by category. Account faults trip the circuit
// at once. Request faults are returned without trying the fallback. Anything
// else, retryable or unclassified, counts toward the failure threshold and
// is retried on the fallback.
type Failover struct {
	primary  ports.SolverBackend
	fallback ports.SolverBackend
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// FailoverOption configures a Failover.
type FailoverOption func(*Failover)

func WithFailoverLogger(logger *slog.Logger) FailoverOption {
	return func(f *Failover) {
		f.logger = logger
	}
}

func WithFailoverMetrics(m *metrics.Metrics) FailoverOption {
	return func(f *Failover) {
		f.metrics = m
	}
}

// NewFailover pairs two backends behind breaker.
func NewFailover(primary, fallback ports.SolverBackend, breaker *circuit.Breaker, opts ...FailoverOption) *Failover {
	f := &Failover{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.SolverBackend = (*Failover)(nil)

func (f *Failover) ID() string {
	return f.primary.ID() + "+" + f.fallback.ID()
}

func (f *Failover) SolveImage(ctx context.Context, imageBase64 string) (ports.Answer, error) {
	return f.call(ctx, func(b ports.SolverBackend) (ports.Answer, error) {
		return b.SolveImage(ctx, imageBase64)
	})
}

func (f *Failover) SolveInteractive(ctx context.Context, siteKey, pageURL string) (ports.Answer, error) {
	return f.call(ctx, func(b ports.SolverBackend) (ports.Answer, error) {
		return b.SolveInteractive(ctx, siteKey, pageURL)
	})
}

type solveFunc func(ports.SolverBackend) (ports.Answer, error)

func (f *Failover) call(ctx context.Context, fn solveFunc) (ports.Answer, error) {
	if f.breaker.IsOpen() {
		return f.useFallback(ctx, fn)
	}

	ans, err := invoke(f.primary, fn)
	if err == nil {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "captcha solver circuit closed", "solver", f.primary.ID())
		}
		return ans, nil
	}
	if ctx.Err() != nil {
		return ans, err
	}

	var change circuit.Change
	switch {
	case IsAccountFault(err):
		change = f.breaker.Trip()
	case IsRequestFault(err):
		f.logger.WarnContext(ctx, "captcha rejected, not retrying on fallback",
			"solver", f.primary.ID(),
			"category", GetCategory(err),
			"error", err,
		)
		return ans, err
	default:
		_, change = f.breaker.RecordFailure()
	}
	if change.Opened {
		f.logger.WarnContext(ctx, "captcha solver circuit opened",
			"solver", f.primary.ID(),
			"fallback", f.fallback.ID(),
			"category", GetCategory(err),
			"error", err,
		)
	}
	return f.useFallback(ctx, fn)
}

func (f *Failover) useFallback(ctx context.Context, fn solveFunc) (ports.Answer, error) {
	f.metrics.IncrementFailover(f.primary.ID(), f.fallback.ID())
	return invoke(f.fallback, fn)
}

// invoke stamps the answer with the backend that produced it.
func invoke(b ports.SolverBackend, fn solveFunc) (ports.Answer, error) {
	ans, err := fn(b)
	if ans.Solver == "" {
		ans.Solver = b.ID()
	}
	return ans, err
}
