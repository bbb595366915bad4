// Package config loads server configuration from built-in defaults, an
// optional YAML file, and PTACHECK_-prefixed environment variables, in that
// order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "PTACHECK_"

const maxConfigFileSize = 1 << 20

// Config is the full server configuration.
type Config struct {
	Server       Server       `koanf:"server"`
	Verification Verification `koanf:"verification"`
	Browser      Browser      `koanf:"browser"`
	Solver       Solver       `koanf:"solver"`
	Postgres     Postgres     `koanf:"postgres"`
	Redis        Redis        `koanf:"redis"`
	Kafka        Kafka        `koanf:"kafka"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	LogFormat       string        `koanf:"log_format"`
	LogLevel        string        `koanf:"log_level"`
	// JWTSigningKey enables bearer auth on /verify and /history when set.
	JWTSigningKey string `koanf:"jwt_signing_key"`
}

// Verification holds pipeline defaults a request may override.
type Verification struct {
	Headless   bool          `koanf:"headless"`
	MaxRetries int           `koanf:"max_retries"`
	RunTimeout time.Duration `koanf:"run_timeout"`
	TargetURL  string        `koanf:"target_url"`
}

// Browser tunes the Chrome instance behind each session.
type Browser struct {
	ExecPath          string        `koanf:"exec_path"`
	UserAgent         string        `koanf:"user_agent"`
	NavigationTimeout time.Duration `koanf:"navigation_timeout"`
	ActionTimeout     time.Duration `koanf:"action_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// Solver selects the captcha services.
type Solver struct {
	Service          string        `koanf:"service"`
	FallbackService  string        `koanf:"fallback_service"`
	TwoCaptchaKey    string        `koanf:"twocaptcha_key"`
	CapMonsterKey    string        `koanf:"capmonster_key"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold int           `koanf:"failure_threshold"`
	Cooldown         time.Duration `koanf:"cooldown"`
}

// Postgres configures verdict storage. An empty DSN keeps verdicts in memory.
type Postgres struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// Redis configures the verdict cache. An empty URL uses an in-process cache.
type Redis struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// Kafka configures verdict events. No brokers disables publishing.
type Kafka struct {
	Brokers           []string `koanf:"brokers"`
	Topic             string   `koanf:"topic"`
	Partitions        int32    `koanf:"partitions"`
	ReplicationFactor int16    `koanf:"replication_factor"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8000",
			ShutdownTimeout: 15 * time.Second,
			LogFormat:       "json",
			LogLevel:        "info",
		},
		Verification: Verification{
			Headless:   true,
			MaxRetries: 3,
			RunTimeout: 5 * time.Minute,
			TargetURL:  "https://dirbs.pta.gov.pk/",
		},
		Browser: Browser{
			NavigationTimeout: 60 * time.Second,
			ActionTimeout:     10 * time.Second,
			IdleTimeout:       15 * time.Second,
		},
		Solver: Solver{
			Service:          "2captcha",
			Timeout:          2 * time.Minute,
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
		},
		Postgres: Postgres{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Redis: Redis{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			CacheTTL:     24 * time.Hour,
		},
		Kafka: Kafka{
			Topic:             "ptacheck.verdicts",
			Partitions:        1,
			ReplicationFactor: 1,
		},
	}
}

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := Default()
	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// envKey maps PTACHECK_SOLVER_TWOCAPTCHA_KEY to solver.twocaptcha_key: the
// first segment is the section, the rest is the field name.
func envKey(key, value string) (string, any) {
	lower := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower, value
	}
	path := section + "." + field
	if path == "kafka.brokers" {
		return path, splitList(value)
	}
	return path, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Verification.MaxRetries < 0 || c.Verification.MaxRetries > 10 {
		errs = append(errs, errors.New("verification.max_retries must be between 0 and 10"))
	}
	if c.Verification.RunTimeout <= 0 {
		errs = append(errs, errors.New("verification.run_timeout must be positive"))
	}
	for _, svc := range []string{c.Solver.Service, c.Solver.FallbackService} {
		if err := c.Solver.requireKey(svc); err != nil {
			errs = append(errs, err)
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required when brokers are set"))
	}
	switch c.Server.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("server.log_format %q must be json or text", c.Server.LogFormat))
	}
	return errors.Join(errs...)
}

func (s Solver) requireKey(service string) error {
	switch service {
	case "":
		return nil
	case "2captcha":
		if s.TwoCaptchaKey == "" {
			return errors.New("solver.twocaptcha_key is required for 2captcha")
		}
	case "capmonster":
		if s.CapMonsterKey == "" {
			return errors.New("solver.capmonster_key is required for capmonster")
		}
	default:
		return fmt.Errorf("solver service %q must be 2captcha or capmonster", service)
	}
	return nil
}
