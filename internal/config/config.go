// Package config loads service configuration from the environment.
// A .env file (loaded by the binaries via godotenv) feeds local
// development; production sets real environment variables.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
)

type Config struct {
	// HTTP Server
	Port string `env:"PORT" envDefault:"8081"`

	// Database
	DBPath string `env:"TALLY_DB_PATH" envDefault:"./data/tally.db"`

	// Auth
	JWTSecret string `env:"JWT_SECRET"`

	// AMQP. An empty URL disables eventing: the server still works,
	// mutations simply go unannounced.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"tally"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"ledger_events"`

	// Worker
	BudgetCacheTTL  time.Duration `env:"BUDGET_CACHE_TTL" envDefault:"5m"`
	BudgetCacheSize int           `env:"BUDGET_CACHE_SIZE" envDefault:"256"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"10m"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BudgetCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid budget cache size %d: must be at least 1", c.BudgetCacheSize))
	}
	if c.BudgetCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid budget cache TTL %v: must be at least 1 second", c.BudgetCacheTTL))
	}
	if c.CleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CleanupInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
