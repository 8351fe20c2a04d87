// internal/common/config/loader_test.go
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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: "http://localhost:5000/"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, "/scan-hand", cfg.Backend.ScanPath)
	assert.Equal(t, "/recommend-rackets", cfg.Backend.RecommendPath)
	assert.Equal(t, "/admin", cfg.Backend.AdminPath)
	assert.Equal(t, "file", cfg.Backend.UploadField)
	assert.Equal(t, 30.0, cfg.Backend.CaptureDistanceCm)
	assert.Equal(t, 0, cfg.Backend.Timeout)
	assert.Equal(t, 0, cfg.Backend.MaxRetries)

	assert.Equal(t, SingleFlightReject, cfg.Session.SingleFlight)
	assert.Equal(t, "ko", cfg.Session.Locale)
	assert.Equal(t, 320, cfg.Session.PreviewMaxSize)

	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 3600, cfg.Cache.TTL)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "racket-advisor", cfg.Metrics.ServiceName)
}

func TestLoadFromFile_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: "https://advisor.example.com"
  upload_field: image
  capture_distance_cm: 42.5
  timeout: 1500
  max_retries: 2
session:
  single_flight: coalesce
  locale: en
cache:
  backend: redis
  ttl: 60
  redis:
    address: "127.0.0.1:6379"
metrics:
  enabled: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "image", cfg.Backend.UploadField)
	assert.Equal(t, 42.5, cfg.Backend.CaptureDistanceCm)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(cfg.Backend.Timeout))
	assert.Equal(t, 2, cfg.Backend.MaxRetries)
	assert.Equal(t, SingleFlightCoalesce, cfg.Session.SingleFlight)
	assert.Equal(t, "en", cfg.Session.Locale)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "127.0.0.1:6379", cfg.Cache.Redis.Address)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://override:9000")
	t.Setenv("SESSION_SINGLE_FLIGHT", "none")

	path := writeConfig(t, `
backend:
  base_url: "http://localhost:5000"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.Backend.BaseURL)
	assert.Equal(t, SingleFlightNone, cfg.Session.SingleFlight)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("ADVISOR_TEST_BACKEND", "http://expanded:7000")

	path := writeConfig(t, `
backend:
  base_url: "${ADVISOR_TEST_BACKEND}"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://expanded:7000", cfg.Backend.BaseURL)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "relative base url",
			body:    "backend:\n  base_url: \"localhost:5000\"\n",
			wantErr: "backend.base_url",
		},
		{
			name:    "unknown upload field",
			body:    "backend:\n  base_url: \"http://x\"\n  upload_field: photo\n",
			wantErr: "backend.upload_field",
		},
		{
			name:    "unknown single flight policy",
			body:    "backend:\n  base_url: \"http://x\"\nsession:\n  single_flight: queue\n",
			wantErr: "session.single_flight",
		},
		{
			name:    "redis without address",
			body:    "backend:\n  base_url: \"http://x\"\ncache:\n  backend: redis\n",
			wantErr: "cache.redis.address",
		},
		{
			name:    "negative retries",
			body:    "backend:\n  base_url: \"http://x\"\n  max_retries: -1\n",
			wantErr: "backend.max_retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
