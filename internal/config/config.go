package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultHTTPPort          = 8080
	DefaultLaneTTL           = 30 * time.Minute
	DefaultBroadcastInterval = 2 * time.Second
	DefaultAuthHeader        = "X-API-Key"
	DefaultGames             = 10
	DefaultStrategy          = "symbols"
	DefaultMaxAttempts       = 1000
)

// Config is the top-level configuration shared by pinsetter and pinsetterd.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`

	// Format is "json" for structured output or "text" for the coloured
	// console handler.
	Format string `yaml:"format"`

	// NoColor disables ANSI colour in text logs and rendered scorecards.
	NoColor bool `yaml:"no_color"`
}

// ServerConfig holds the lane server settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and /metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// LaneTTL is how long an untouched lane keeps its game before eviction.
	LaneTTL time.Duration `yaml:"lane_ttl"`

	// BroadcastInterval controls how often scorecards are pushed to
	// WebSocket clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// Auth configures API key checks on the REST API.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures REST API authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header carrying the key (default X-API-Key).
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns Header, or DefaultAuthHeader when unset.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header == "" {
		return DefaultAuthHeader
	}
	return a.Header
}

// SimulatorConfig drives the random-throw simulator in cmd/pinsetter.
type SimulatorConfig struct {
	// Games is how many games to simulate per run.
	Games int `yaml:"games"`

	// Seed fixes the random source. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`

	// Strategy is "symbols" (uniform over all twelve throw values, retrying
	// illegal ones) or "pins" (uniform over the pins left standing).
	Strategy string `yaml:"strategy"`

	// MaxAttempts bounds retries for a single throw under "symbols".
	MaxAttempts int `yaml:"max_attempts"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			LaneTTL:           DefaultLaneTTL,
			BroadcastInterval: DefaultBroadcastInterval,
		},
		Simulator: SimulatorConfig{
			Games:       DefaultGames,
			Strategy:    DefaultStrategy,
			MaxAttempts: DefaultMaxAttempts,
		},
	}
}

// validate checks structural constraints and enum values.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}

	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be between 1 and 65535")
	}
	if cfg.Server.LaneTTL <= 0 {
		return fmt.Errorf("server.lane_ttl must be positive")
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	switch cfg.Server.Auth.Mode {
	case "apikey":
		if cfg.Server.Auth.KeyEnv == "" {
			return fmt.Errorf("server.auth.key_env is required when mode is apikey")
		}
	case "none", "":
	default:
		return fmt.Errorf("server.auth: unknown mode %q", cfg.Server.Auth.Mode)
	}

	if cfg.Simulator.Games <= 0 {
		return fmt.Errorf("simulator.games must be positive")
	}
	switch cfg.Simulator.Strategy {
	case "symbols", "pins":
	default:
		return fmt.Errorf("simulator.strategy: unknown strategy %q", cfg.Simulator.Strategy)
	}
	if cfg.Simulator.MaxAttempts <= 0 {
		return fmt.Errorf("simulator.max_attempts must be positive")
	}
	return nil
}
