package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port             int           `env:"PORT" envDefault:"8080"`
	DatabaseURL      string        `env:"DATABASE_URL,required,notEmpty"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	MatchLimit       int           `env:"MATCH_LIMIT" envDefault:"20"`
	RequestListLimit int           `env:"REQUEST_LIST_LIMIT" envDefault:"50"`
	RetentionSweep   time.Duration `env:"RETENTION_SWEEP_INTERVAL" envDefault:"1h"`
	RequestRetention time.Duration `env:"REQUEST_RETENTION" envDefault:"2160h"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	if c.MatchLimit <= 0 || c.MatchLimit > MaxMatchLimit {
		return fmt.Errorf("MATCH_LIMIT must be between 1 and %d", MaxMatchLimit)
	}
	if c.RequestListLimit <= 0 {
		return fmt.Errorf("REQUEST_LIST_LIMIT must be positive")
	}
	if c.RetentionSweep <= 0 {
		return fmt.Errorf("RETENTION_SWEEP_INTERVAL must be positive")
	}
	if c.RequestRetention <= 0 {
		return fmt.Errorf("REQUEST_RETENTION must be positive")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
