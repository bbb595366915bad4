// Package backends builds the configured captcha solver backend.
package backends

import (
	"fmt"
	"log/slog"
	"time"

	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/solver"
	"ptacheck/internal/verification/solver/capmonster"
	"ptacheck/internal/verification/solver/twocaptcha"
	"ptacheck/pkg/platform/circuit"
)

// Config selects and authenticates the solver services.
type Config struct {
	// Service is the primary solver: "2captcha" or "capmonster".
	Service string
	// FallbackService is optional; when set, calls fail over to it while
	// the primary's circuit is open.
	FallbackService string

	TwoCaptchaKey string
	CapMonsterKey string

	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// New builds the primary backend, wrapped in a Failover when a fallback is
// configured.
func New(cfg Config, logger *slog.Logger, m *metrics.Metrics) (ports.SolverBackend, error) {
	primary, err := build(cfg.Service, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.FallbackService == "" || cfg.FallbackService == cfg.Service {
		return primary, nil
	}

	fallback, err := build(cfg.FallbackService, cfg)
	if err != nil {
		return nil, fmt.Errorf("fallback solver: %w", err)
	}
	breaker := circuit.New("captcha-"+primary.ID(),
		circuit.WithFailureThreshold(cfg.FailureThreshold),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(cfg.Cooldown),
	)
	return solver.NewFailover(primary, fallback, breaker,
		solver.WithFailoverLogger(logger),
		solver.WithFailoverMetrics(m),
	), nil
}

func build(service string, cfg Config) (ports.SolverBackend, error) {
	switch service {
	case twocaptcha.ID:
		return twocaptcha.New(cfg.TwoCaptchaKey, twocaptcha.WithTimeout(cfg.Timeout))
	case capmonster.ID:
		return capmonster.New(cfg.CapMonsterKey, capmonster.WithTimeout(cfg.Timeout))
	default:
		return nil, fmt.Errorf("%w: %q", solver.ErrUnknownService, service)
	}
}
