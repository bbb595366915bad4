// Package handler exposes the verification service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/orchestrator"
	"ptacheck/internal/verification/service"
	"ptacheck/pkg/platform/httputil"
	"ptacheck/pkg/requestcontext"
)

// Service is what the handler needs from the verification service.
type Service interface {
	Verify(ctx context.Context, req service.VerifyRequest) (orchestrator.Result, error)
	History(ctx context.Context, rawIMEI string, limit int) ([]models.Record, error)
}

// HealthCheck checks one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Handler wires verification endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
	checks  map[string]HealthCheck
}

// Option configures a Handler.
type Option func(*Handler)

// WithHealthCheck adds a dependency check to GET /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		h.checks[name] = check
	}
}

// New constructs a verification handler.
func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: svc,
		logger:  logger,
		checks:  make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the verification endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify", h.HandleVerify)
	r.Get("/history", h.HandleHistory)
}

// RegisterHealthRoutes mounts the health endpoints, which stay unauthenticated.
func (h *Handler) RegisterHealthRoutes(r chi.Router) {
	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
}

func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "IMEI Verification API is running"})
}

// HandleHealth reports healthy when every registered check passes.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if len(h.checks) == 0 {
		httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "healthy", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
			resp.Checks[name] = "unhealthy"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}

// HandleVerify handles POST /verify. Pipeline failures still answer 200 with
// success=false; only malformed requests and an unavailable pipeline are
// HTTP errors.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	opts, err := parseVerifyOptions(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Verify(ctx, service.VerifyRequest{
		IMEI:       req.IMEI,
		Headless:   opts.headless,
		MaxRetries: opts.maxRetries,
		SkipCache:  opts.skipCache,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "verification request failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification request completed",
		"request_id", requestID,
		"imei", res.IMEI,
		"status", res.Status,
		"success", res.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromResult(res))
}

// HandleHistory handles GET /history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.History(ctx, q.Get("imei"), limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "history request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{Records: records})
}
