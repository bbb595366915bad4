package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ptacheck/internal/imei"
	"ptacheck/internal/platform/config"
	"ptacheck/internal/platform/metrics"
	"ptacheck/internal/platform/middleware"
	"ptacheck/internal/platform/postgres"
	"ptacheck/internal/platform/redis"
	"ptacheck/internal/verification/browser"
	"ptacheck/internal/verification/cache"
	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/events"
	"ptacheck/internal/verification/handler"
	vmetrics "ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/orchestrator"
	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/registry"
	"ptacheck/internal/verification/result"
	"ptacheck/internal/verification/service"
	"ptacheck/internal/verification/solver"
	"ptacheck/internal/verification/solver/backends"
	"ptacheck/internal/verification/store"
	"ptacheck/pkg/platform/middleware/metadata"
)

type app struct {
	router   chi.Router
	registry *registry.Registry
	closers  []func()
}

func (a *app) close() {
	a.registry.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func wire(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{}
	vm := vmetrics.New()
	var checks []handler.Option

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	var st store.Store = store.NewMemoryStore()
	if db != nil {
		a.closers = append(a.closers, func() { _ = db.Close() })
		st = store.NewPostgresStore(db)
		checks = append(checks, handler.WithHealthCheck("postgres", pingDB(db)))
	} else {
		log.Warn("no postgres dsn configured; verdicts are kept in memory")
	}
	if err := st.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var verdictCache ports.VerdictCache = cache.NewMemoryCache(cfg.Redis.CacheTTL)
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		a.closers = append(a.closers, func() { _ = rc.Close() })
		verdictCache = cache.NewRedisCache(rc.Client, cfg.Redis.CacheTTL)
		checks = append(checks, handler.WithHealthCheck("redis", rc.Health))
	}

	var publisher ports.VerdictPublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, events.WithLogger(log))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, kp.Close)
		if err := kp.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			log.Warn("could not ensure verdict topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		publisher = kp
		checks = append(checks, handler.WithHealthCheck("kafka", kp.Health))
	}

	backend, err := backends.New(backends.Config{
		Service:          cfg.Solver.Service,
		FallbackService:  cfg.Solver.FallbackService,
		TwoCaptchaKey:    cfg.Solver.TwoCaptchaKey,
		CapMonsterKey:    cfg.Solver.CapMonsterKey,
		Timeout:          cfg.Solver.Timeout,
		FailureThreshold: cfg.Solver.FailureThreshold,
		Cooldown:         cfg.Solver.Cooldown,
	}, log, vm)
	if err != nil {
		return nil, fmt.Errorf("build solver: %w", err)
	}

	a.registry = registry.New(pipelineBuilder(cfg, backend, st, vm, log), registry.WithLogger(log))

	svc := service.New(a.registry, st, service.Defaults{
		Headless:   cfg.Verification.Headless,
		MaxRetries: cfg.Verification.MaxRetries,
		RunTimeout: cfg.Verification.RunTimeout,
	},
		service.WithLogger(log),
		service.WithMetrics(vm),
		service.WithCache(verdictCache),
		service.WithPublisher(publisher),
	)

	a.router = newRouter(cfg, svc, log, checks)
	return a, nil
}

// pipelineBuilder builds one orchestrator per (headless, retries) pair. The
// solver backend and stores are shared; each pipeline owns its launcher.
func pipelineBuilder(cfg *config.Config, backend ports.SolverBackend, st store.Store, vm *vmetrics.Metrics, log *slog.Logger) registry.Builder {
	return func(_ context.Context, key registry.Key) (*orchestrator.Orchestrator, error) {
		bcfg := browser.DefaultConfig()
		bcfg.Headless = key.Headless
		bcfg.ExecPath = cfg.Browser.ExecPath
		if cfg.Browser.UserAgent != "" {
			bcfg.UserAgent = cfg.Browser.UserAgent
		}
		bcfg.NavigationTimeout = cfg.Browser.NavigationTimeout
		bcfg.ActionTimeout = cfg.Browser.ActionTimeout
		bcfg.IdleTimeout = cfg.Browser.IdleTimeout

		adapter, err := solver.NewAdapter(backend, solver.WithLogger(log), solver.WithMetrics(vm))
		if err != nil {
			return nil, err
		}

		return orchestrator.New(orchestrator.Config{
			MaxRetries: key.MaxRetries,
			TargetURL:  cfg.Verification.TargetURL,
		}, orchestrator.Deps{
			Validator:  imei.Validator{},
			Sessions:   browser.NewLauncher(bcfg, browser.WithLogger(log)),
			Challenges: challenge.NewClassifier(challenge.WithLogger(log)),
			Solver:     adapter,
			Results:    result.NewClassifier(result.WithLogger(log)),
			Store:      st,
		},
			orchestrator.WithLogger(log.With("pipeline", key.String())),
			orchestrator.WithMetrics(vm),
			orchestrator.WithFaultLog(st),
		)
	}
}

func newRouter(cfg *config.Config, svc *service.Service, log *slog.Logger, checks []handler.Option) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(metrics.New()))

	h := handler.New(svc, log, checks...)
	r.Handle("/metrics", promhttp.Handler())
	h.RegisterHealthRoutes(r)
	r.Group(func(r chi.Router) {
		if cfg.Server.JWTSigningKey != "" {
			r.Use(middleware.RequireAuth(middleware.NewHMACValidator(cfg.Server.JWTSigningKey), log))
		}
		h.Register(r)
	})
	return r
}

func pingDB(db *sql.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}
}
