package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds all configuration for the server and the client
type Config struct {
	// QUIC endpoint
	Host string
	Port int

	// Address of the Prometheus /metrics endpoint. Empty disables it.
	MetricsAddr string

	// CSV file receiving fairness samples. Empty disables it.
	FairnessCSV      string
	FairnessInterval time.Duration

	Debug bool
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Host:             "localhost",
		Port:             8000,
		MetricsAddr:      ":9100",
		FairnessInterval: time.Second,
	}
}

// LoadFromEnv loads configuration from environment variables, reading the
// given .env files first if they exist.
func LoadFromEnv(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg := Default()
	cfg.Host = getEnvWithDefault("TICKQ_HOST", cfg.Host)
	cfg.FairnessCSV = getEnvWithDefault("TICKQ_FAIRNESS_CSV", cfg.FairnessCSV)

	if v, ok := os.LookupEnv("TICKQ_METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}

	if v := os.Getenv("TICKQ_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, errors.Errorf("invalid TICKQ_PORT %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("TICKQ_FAIRNESS_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid TICKQ_FAIRNESS_INTERVAL %q", v)
		}
		if interval <= 0 {
			return nil, errors.Errorf("TICKQ_FAIRNESS_INTERVAL must be positive, got %s", interval)
		}
		cfg.FairnessInterval = interval
	}

	if v := os.Getenv("TICKQ_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid TICKQ_DEBUG %q", v)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
