package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.True(t, cfg.Stream.AutoRefresh)
	assert.Equal(t, 3*time.Second, cfg.Stream.MetricsInterval)
	assert.Equal(t, 5*time.Second, cfg.Stream.ChartsInterval)
	assert.Equal(t, time.Second, cfg.Insights.Delay)
	assert.Equal(t, 80, cfg.Insights.MinConfidence)
	assert.Equal(t, 100, cfg.Insights.MaxConfidence)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
stream:
  metricsInterval: 10s
  seed: 1234
insights:
  delay: 0s
redis:
  enabled: true
  keyPrefix: demo
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Stream.MetricsInterval)
	assert.Equal(t, uint64(1234), cfg.Stream.Seed)
	assert.Equal(t, time.Duration(0), cfg.Insights.Delay)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "demo", cfg.Redis.KeyPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULSEBOARD_SERVER_PORT", "7000")
	t.Setenv("PULSEBOARD_LOGGING_LEVEL", "debug")
	t.Setenv("PULSEBOARD_REDIS_PASSWORD", "s3cret")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "s3cret", cfg.Redis.Password)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Stream:   StreamConfig{AutoRefresh: true, MetricsInterval: 3 * time.Second, ChartsInterval: 5 * time.Second},
			Insights: InsightsConfig{MinConfidence: 80, MaxConfidence: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "empty confidence range", mutate: func(c *Config) {
			c.Insights.MinConfidence = 95
			c.Insights.MaxConfidence = 90
		}, wantErr: true},
		{name: "confidence below range", mutate: func(c *Config) { c.Insights.MinConfidence = 0 }, wantErr: true},
		{name: "confidence above range", mutate: func(c *Config) { c.Insights.MaxConfidence = 120 }, wantErr: true},
		{name: "narrowed confidence", mutate: func(c *Config) {
			c.Insights.MinConfidence = 90
			c.Insights.MaxConfidence = 95
		}},
		{name: "delay beyond write timeout", mutate: func(c *Config) {
			c.Server.WriteTimeout = 1
			c.Insights.Delay = 2 * time.Second
		}, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.Insights.Delay = -time.Second }, wantErr: true},
		{name: "sub-second interval", mutate: func(c *Config) { c.Stream.MetricsInterval = 100 * time.Millisecond }, wantErr: true},
		{name: "sub-second interval without auto refresh", mutate: func(c *Config) {
			c.Stream.AutoRefresh = false
			c.Stream.MetricsInterval = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
