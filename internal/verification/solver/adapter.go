// Package solver turns a detected challenge into an answer by delegating to an
// external captcha solving service.
package solver

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/ports"
)

// Adapter dispatches challenges to a solver backend by variant.
type Adapter struct {
	backend ports.SolverBackend
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Adapter.
type Option func(*Adapter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// NewAdapter creates an adapter over backend.
func NewAdapter(backend ports.SolverBackend, opts ...Option) (*Adapter, error) {
	if backend == nil {
		return nil, fmt.Errorf("solver backend is required")
	}
	a := &Adapter{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Solve never returns an error: backend failures come back as an
// unsuccessful Solution carrying the message.
func (a *Adapter) Solve(ctx context.Context, c challenge.Challenge) challenge.Solution {
	id := a.backend.ID()

	var (
		ans ports.Answer
		err error
	)
	start := time.Now()
	switch c.Kind {
	case challenge.KindNone:
		return challenge.Solution{Success: true, SolverID: id}
	case challenge.KindImage:
		ans, err = a.backend.SolveImage(ctx, base64.StdEncoding.EncodeToString(c.Image))
	case challenge.KindInteractive:
		ans, err = a.backend.SolveInteractive(ctx, c.SiteKey, c.PageURL)
	default:
		msg := ErrNoSolvableChallenge.Error()
		if c.Reason != "" {
			msg += ": " + c.Reason
		}
		return challenge.Failed(id, msg)
	}
	if ans.Solver != "" {
		id = ans.Solver
	}

	if err == nil && ans.Text == "" {
		err = NewSolverError(ErrorBadData, id, "empty answer", ErrEmptyAnswer)
	}
	if err != nil {
		a.metrics.ObserveSolve(id, string(c.Kind), string(GetCategory(err)), time.Since(start))
		a.logger.WarnContext(ctx, "captcha solve failed",
			"solver", id,
			"task_id", ans.TaskID,
			"kind", c.Kind,
			"category", GetCategory(err),
			"error", err,
		)
		sol := challenge.Failed(id, err.Error())
		sol.TaskID = ans.TaskID
		return sol
	}

	a.metrics.ObserveSolve(id, string(c.Kind), "solved", time.Since(start))
	a.logger.InfoContext(ctx, "captcha solved",
		"solver", id,
		"task_id", ans.TaskID,
		"kind", c.Kind,
		"answer_length", len(ans.Text),
		"duration", time.Since(start),
	)
	return challenge.Solution{Text: ans.Text, Success: true, SolverID: id, TaskID: ans.TaskID}
}
