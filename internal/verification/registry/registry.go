// Package registry memoizes pipeline orchestrators by run configuration.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"ptacheck/internal/verification/orchestrator"
)

// Key identifies an orchestrator configuration.
type Key struct {
	Headless   bool
	MaxRetries int
}

func (k Key) String() string {
	return fmt.Sprintf("headless_%t_retries_%d", k.Headless, k.MaxRetries)
}

// ErrClosed is returned by Get once the registry has been closed.
var ErrClosed = errors.New("orchestrator registry closed")

// Builder constructs the orchestrator for a key.
type Builder func(ctx context.Context, key Key) (*orchestrator.Orchestrator, error)

// Registry builds each configuration at most once. Concurrent first requests
// for the same key share a single construction.
type Registry struct {
	build  Builder
	logger *slog.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[Key]*orchestrator.Orchestrator
	closed  bool
}

// Option configures a Registry.
type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(build Builder, opts ...Option) *Registry {
	r := &Registry{
		build:   build,
		logger:  slog.Default(),
		entries: make(map[Key]*orchestrator.Orchestrator),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the orchestrator for key, building it on first use. Build
// errors are not cached. After Close, Get returns ErrClosed, including to
// callers whose build was already in flight.
func (r *Registry) Get(ctx context.Context, key Key) (*orchestrator.Orchestrator, error) {
	o, ok, err := r.lookup(key)
	if err != nil || ok {
		return o, err
	}

	v, err, _ := r.group.Do(key.String(), func() (any, error) {
		if o, ok, err := r.lookup(key); err != nil || ok {
			return o, err
		}
		o, err := r.build(ctx, key)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return nil, ErrClosed
		}
		r.entries[key] = o
		r.logger.InfoContext(ctx, "orchestrator created", "key", key.String())
		return o, nil
	})
	if errors.Is(err, ErrClosed) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, fmt.Errorf("build orchestrator %s: %w", key, err)
	}
	return v.(*orchestrator.Orchestrator), nil
}

func (r *Registry) lookup(key Key) (*orchestrator.Orchestrator, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	o, ok := r.entries[key]
	return o, ok, nil
}

// Len returns the number of cached orchestrators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close drops every cached orchestrator and stops the registry from
// building or caching new ones. Called at shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	clear(r.entries)
}
