package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"tickq/src/config"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

// Test if defaults are used when nothing is set.
func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := config.LoadFromEnv(missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// Test if environment variables override the defaults.
func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("TICKQ_HOST", "0.0.0.0")
	t.Setenv("TICKQ_PORT", "9000")
	t.Setenv("TICKQ_METRICS_ADDR", "")
	t.Setenv("TICKQ_FAIRNESS_CSV", "/tmp/fairness.csv")
	t.Setenv("TICKQ_FAIRNESS_INTERVAL", "250ms")
	t.Setenv("TICKQ_DEBUG", "true")

	cfg, err := config.LoadFromEnv(missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "", cfg.MetricsAddr)
	assert.Equal(t, "/tmp/fairness.csv", cfg.FairnessCSV)
	assert.Equal(t, 250*time.Millisecond, cfg.FairnessInterval)
	assert.True(t, cfg.Debug)
}

// Test if values are read from a .env file.
func TestLoadFromEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TICKQ_PORT=7000\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TICKQ_PORT") })

	cfg, err := config.LoadFromEnv(path)

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

// Test if invalid values are rejected.
func TestLoadFromEnv_Invalid(t *testing.T) {
	for key, value := range map[string]string{
		"TICKQ_PORT":              "http",
		"TICKQ_FAIRNESS_INTERVAL": "-1s",
		"TICKQ_DEBUG":             "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := config.LoadFromEnv(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
