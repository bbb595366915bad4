// Package service is the entry point handlers and the CLI use to verify an
// IMEI and read verification history.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/orchestrator"
	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/registry"
	"ptacheck/internal/verification/store"
	dErrors "ptacheck/pkg/domain-errors"
	"ptacheck/pkg/platform/sentinel"
)

// MaxRetriesLimit caps per-request retry overrides.
const MaxRetriesLimit = 10

// Defaults apply when a request leaves an override unset.
type Defaults struct {
	Headless   bool
	MaxRetries int
	// RunTimeout bounds one whole verification, retries included.
	RunTimeout time.Duration
}

// Orchestrators hands out a pipeline per configuration.
type Orchestrators interface {
	Get(ctx context.Context, key registry.Key) (*orchestrator.Orchestrator, error)
}

// Service coordinates cache, pipeline, and publication.
type Service struct {
	orchestrators Orchestrators
	store         ports.VerdictStore
	cache         ports.VerdictCache
	publisher     ports.VerdictPublisher
	defaults      Defaults
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables reuse of recent definitive verdicts.
func WithCache(c ports.VerdictCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithPublisher announces every definitive verdict.
func WithPublisher(p ports.VerdictPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New creates a service.
func New(orchestrators Orchestrators, st ports.VerdictStore, defaults Defaults, opts ...Option) *Service {
	s := &Service{
		orchestrators: orchestrators,
		store:         st,
		defaults:      defaults,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyRequest carries the IMEI and optional per-request overrides.
type VerifyRequest struct {
	IMEI       string
	Headless   *bool
	MaxRetries *int
	// SkipCache forces a fresh check against the regulator.
	SkipCache bool
}

func (s *Service) key(req VerifyRequest) registry.Key {
	key := registry.Key{Headless: s.defaults.Headless, MaxRetries: s.defaults.MaxRetries}
	if req.Headless != nil {
		key.Headless = *req.Headless
	}
	if req.MaxRetries != nil {
		key.MaxRetries = *req.MaxRetries
	}
	return key
}

// Verify runs the pipeline for one IMEI. Pipeline failures are reported in
// the Result; the error is reserved for invalid overrides and for a pipeline
// that cannot be built.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (orchestrator.Result, error) {
	if req.MaxRetries != nil && (*req.MaxRetries < 0 || *req.MaxRetries > MaxRetriesLimit) {
		return orchestrator.Result{}, dErrors.New(dErrors.CodeValidation, "max_retries must be between 0 and 10")
	}

	if res, ok := s.cached(ctx, req); ok {
		return res, nil
	}

	key := s.key(req)
	o, err := s.orchestrators.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification pipeline unavailable",
			"key", key.String(),
			"error", err,
		)
		return orchestrator.Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification pipeline unavailable")
	}

	runCtx := ctx
	if s.defaults.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.defaults.RunTimeout)
		defer cancel()
	}
	res := o.Run(runCtx, req.IMEI)

	if res.Success && res.Status.IsDefinitive() {
		s.remember(ctx, res)
	}
	return res, nil
}

func (s *Service) cached(ctx context.Context, req VerifyRequest) (orchestrator.Result, bool) {
	if s.cache == nil || req.SkipCache {
		return orchestrator.Result{}, false
	}
	id, err := imei.Parse(req.IMEI)
	if err != nil {
		return orchestrator.Result{}, false
	}
	v, err := s.cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "verdict cache lookup failed", "error", err)
		}
		s.metrics.RecordCacheMiss()
		return orchestrator.Result{}, false
	}
	s.metrics.RecordCacheHit()
	return orchestrator.Result{
		Success:    true,
		IMEI:       v.IMEI.String(),
		Status:     v.Status,
		Details:    v.Details,
		Message:    "IMEI verification completed (cached)",
		VerifiedAt: v.VerifiedAt,
	}, true
}

// remember caches and publishes a definitive verdict. Both are best effort.
func (s *Service) remember(ctx context.Context, res orchestrator.Result) {
	id, err := imei.Parse(res.IMEI)
	if err != nil {
		return
	}
	v := models.Verdict{
		IMEI:       id,
		Status:     res.Status,
		Details:    res.Details,
		VerifiedAt: res.VerifiedAt,
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, v); err != nil {
			s.logger.WarnContext(ctx, "failed to cache verdict", "imei", res.IMEI, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishVerdict(ctx, v); err != nil {
			s.logger.WarnContext(ctx, "failed to publish verdict", "imei", res.IMEI, "error", err)
		}
	}
}

// History lists persisted records, newest first. An empty rawIMEI lists all.
func (s *Service) History(ctx context.Context, rawIMEI string, limit int) ([]models.Record, error) {
	var id imei.IMEI
	if rawIMEI != "" {
		parsed, err := imei.Parse(rawIMEI)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "imei must be 15 digits")
		}
		id = parsed
	}
	records, err := s.store.History(ctx, id, store.NormalizeLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load history")
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}
