// Package orchestrator runs the verification pipeline: a fixed sequence of
// steps with whole-pipeline retry on any step failure.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/dirbs"
	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
)

const tracerName = "ptacheck/verification"

// Validator checks the identifier before any network work.
type Validator interface {
	Validate(ctx context.Context, raw string) (imei.IMEI, error)
}

// ChallengeClassifier decides which captcha the page is showing.
type ChallengeClassifier interface {
	Classify(ctx context.Context, page ports.Page) challenge.Challenge
}

// Solver answers a classified challenge.
type Solver interface {
	Solve(ctx context.Context, c challenge.Challenge) challenge.Solution
}

// ResultExtractor reads the verdict off the result page.
type ResultExtractor interface {
	Extract(ctx context.Context, page ports.Page, id imei.IMEI) models.Verdict
}

// Deps are the pipeline's collaborators. All are required.
type Deps struct {
	Validator  Validator
	Sessions   ports.SessionFactory
	Challenges ChallengeClassifier
	Solver     Solver
	Results    ResultExtractor
	Store      ports.VerdictStore
}

func (d Deps) validate() error {
	switch {
	case d.Validator == nil:
		return errors.New("validator is required")
	case d.Sessions == nil:
		return errors.New("session factory is required")
	case d.Challenges == nil:
		return errors.New("challenge classifier is required")
	case d.Solver == nil:
		return errors.New("solver is required")
	case d.Results == nil:
		return errors.New("result extractor is required")
	case d.Store == nil:
		return errors.New("verdict store is required")
	}
	return nil
}

// Config bounds a run.
type Config struct {
	MaxRetries int
	TargetURL  string
}

// Orchestrator is safe for concurrent use; each Run owns its own State and
// browser session.
type Orchestrator struct {
	cfg      Config
	deps     Deps
	faults   ports.FaultLog
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	recovery *recovery
	steps    []stepDef
}

type stepFunc func(ctx context.Context, st *State) error

type stepDef struct {
	name Step
	run  stepFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

// WithFaultLog records a diagnostic row for every failed step.
func WithFaultLog(f ports.FaultLog) Option {
	return func(o *Orchestrator) {
		o.faults = f
	}
}

// New creates an orchestrator. A negative MaxRetries is treated as zero.
func New(cfg Config, deps Deps, opts ...Option) (*Orchestrator, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.TargetURL == "" {
		cfg.TargetURL = dirbs.DefaultURL
	}

	o := &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.recovery = &recovery{
		maxRetries: cfg.MaxRetries,
		store:      deps.Store,
		faults:     o.faults,
		logger:     o.logger,
		metrics:    o.metrics,
	}
	o.steps = []stepDef{
		{StepValidate, o.validateIdentifier},
		{StepClassifyChallenge, o.classifyChallenge},
		{StepSolveChallenge, o.solveChallenge},
		{StepInteract, o.interactWithPage},
		{StepClassifyResult, o.classifyResult},
		{StepPersist, o.persistVerdict},
	}
	return o, nil
}

// MaxRetries returns the retry budget this orchestrator was built with.
func (o *Orchestrator) MaxRetries() int {
	return o.cfg.MaxRetries
}

// Run verifies raw end to end. It always returns a Result; failures are
// reported in it, never as a panic or error.
func (o *Orchestrator) Run(ctx context.Context, raw string) Result {
	runID := uuid.NewString()
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "verification.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("max_retries", o.cfg.MaxRetries),
		))
	defer span.End()

	o.logger.InfoContext(ctx, "verification started",
		"run_id", runID,
		"max_retries", o.cfg.MaxRetries,
	)

	for retryCount := 0; ; retryCount++ {
		st := newState(runID, raw, retryCount)
		err := o.attempt(ctx, st)
		if err == nil {
			res := successResult(st)
			o.finish(ctx, span, res, start)
			return res
		}

		res, retry := o.recovery.handle(ctx, st, err)
		if !retry {
			o.finish(ctx, span, res, start)
			return res
		}
		o.logger.InfoContext(ctx, "retrying verification",
			"run_id", runID,
			"retry_count", retryCount+1,
		)
	}
}

func (o *Orchestrator) finish(ctx context.Context, span trace.Span, res Result, start time.Time) {
	span.SetAttributes(
		attribute.String("status", string(res.Status)),
		attribute.Int("retry_count", res.RetryCount),
	)
	if !res.Success {
		span.SetStatus(codes.Error, res.ErrorMessage)
	}
	o.metrics.ObserveRun(string(res.Status), time.Since(start))
	o.logger.InfoContext(ctx, "verification finished",
		"imei", res.IMEI,
		"success", res.Success,
		"status", res.Status,
		"retry_count", res.RetryCount,
		"duration", time.Since(start),
	)
}

// attempt runs every step once, in order. The browser session opened by
// classify_challenge is closed when the attempt ends.
func (o *Orchestrator) attempt(ctx context.Context, st *State) error {
	defer o.closeSession(ctx, st)

	for _, s := range o.steps {
		if err := ctx.Err(); err != nil {
			return stepFailed(s.name, "verification aborted", err)
		}
		st.Step = s.name
		if err := o.runStep(ctx, s, st); err != nil {
			return err
		}
	}
	st.Step = StepDone
	return nil
}

func (o *Orchestrator) runStep(ctx context.Context, s stepDef, st *State) (err error) {
	ctx, span := o.tracer.Start(ctx, "verification."+string(s.name),
		trace.WithAttributes(
			attribute.String("run_id", st.RunID),
			attribute.Int("retry_count", st.RetryCount),
		))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = stepFailed(s.name, fmt.Sprintf("unexpected fault: %v", r), nil)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	err = s.run(ctx, st)
	if err == nil {
		return nil
	}
	var se *StepError
	if !errors.As(err, &se) {
		err = stepFailed(s.name, err.Error(), err)
	}
	return err
}

func (o *Orchestrator) closeSession(ctx context.Context, st *State) {
	if st.session == nil {
		return
	}
	if err := st.session.Close(); err != nil {
		o.logger.WarnContext(ctx, "failed to close browser session",
			"run_id", st.RunID,
			"error", err,
		)
	}
	st.session = nil
}

func successResult(st *State) Result {
	return Result{
		Success:    true,
		IMEI:       st.IMEI.String(),
		Status:     st.Verdict.Status,
		Details:    st.Verdict.Details,
		Message:    "IMEI verification completed",
		RetryCount: st.RetryCount,
		VerifiedAt: st.Verdict.VerifiedAt,
		Record:     st.Record,
	}
}
