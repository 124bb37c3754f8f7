package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the trainyard server.
type Config struct {
	Addr            string        `env:"TRAINYARD_ADDR,default=:8080"`
	DataDir         string        `env:"TRAINYARD_DATA_DIR,default=data"`
	LogLevel        string        `env:"TRAINYARD_LOG_LEVEL,default=info"`
	LogFormat       string        `env:"TRAINYARD_LOG_FORMAT,default=console"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AllowedOrigins  []string      `env:"TRAINYARD_CORS_ORIGINS,default=*"`
	RateLimit       float64       `env:"TRAINYARD_RATE_LIMIT,default=50"`
	RateBurst       int           `env:"TRAINYARD_RATE_BURST,default=100"`
	ShutdownTimeout time.Duration `env:"TRAINYARD_SHUTDOWN_TIMEOUT,default=10s"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q: want console or json", c.LogFormat)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("rate limit and burst must not be negative")
	}
	return nil
}

// Level returns the parsed log level. Load has already validated it.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
