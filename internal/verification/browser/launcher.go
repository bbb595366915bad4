// Package browser drives headless Chrome through chromedp. Each pipeline run
// gets its own browser process and tab.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"ptacheck/internal/verification/ports"
)

// Config controls browser launch and wait bounds.
type Config struct {
	Headless bool
	// ExecPath overrides Chrome discovery.
	ExecPath  string
	UserAgent string

	WindowWidth  int
	WindowHeight int

	// NavigationTimeout bounds a navigation or click.
	NavigationTimeout time.Duration
	// ActionTimeout bounds reads and form fills.
	ActionTimeout time.Duration
	// IdleTimeout bounds the wait for the networkIdle lifecycle event after
	// a navigation. Expiry is not an error.
	IdleTimeout time.Duration
}

// DefaultConfig returns the bounds used by the server.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		WindowWidth:       1280,
		WindowHeight:      900,
		NavigationTimeout: 60 * time.Second,
		ActionTimeout:     10 * time.Second,
		IdleTimeout:       15 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowWidth <= 0 {
		c.WindowWidth = d.WindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = d.WindowHeight
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = d.NavigationTimeout
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = d.ActionTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	return c
}

// Launcher is a ports.SessionFactory.
type Launcher struct {
	cfg    Config
	logger *slog.Logger
}

var _ ports.SessionFactory = (*Launcher)(nil)

// Option configures a Launcher.
type Option func(*Launcher)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// NewLauncher creates a launcher. Zero config fields take defaults.
func NewLauncher(cfg Config, opts ...Option) *Launcher {
	l := &Launcher{cfg: cfg.withDefaults(), logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Headless reports the launch mode.
func (l *Launcher) Headless() bool {
	return l.cfg.Headless
}

// allocatorOptions builds the Chrome flags for cfg.
func allocatorOptions(cfg Config) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// Open starts a browser bound to ctx. Cancelling ctx kills the browser; Close
// releases it early.
func (l *Launcher) Open(ctx context.Context) (ports.Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(l.cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			l.logger.Debug("chromedp error", "detail", fmt.Sprintf(format, args...))
		}),
	)

	startCtx, cancel := context.WithTimeout(tabCtx, l.cfg.NavigationTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx, page.SetLifecycleEventsEnabled(true)); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	l.logger.DebugContext(ctx, "browser session opened", "headless", l.cfg.Headless)
	return &Session{
		cfg:         l.cfg,
		logger:      l.logger,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}, nil
}
