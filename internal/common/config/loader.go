// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides such as BACKEND_BASE_URL.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// setViperDefaults registers every key so AutomaticEnv can override keys
// that are missing from the yaml file.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "racket-advisor")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("backend.base_url", "http://127.0.0.1:5000")
	v.SetDefault("backend.scan_path", "/scan-hand")
	v.SetDefault("backend.recommend_path", "/recommend-rackets")
	v.SetDefault("backend.admin_path", "/admin")
	v.SetDefault("backend.upload_field", "file")
	v.SetDefault("backend.capture_distance_cm", 30)
	v.SetDefault("backend.timeout", 0)
	v.SetDefault("backend.max_retries", 0)
	v.SetDefault("backend.retry_backoff", 200)

	v.SetDefault("session.single_flight", SingleFlightReject)
	v.SetDefault("session.locale", "ko")
	v.SetDefault("session.preview_max_size", 320)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 3600)
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.body_limit_mb", 16)
	v.SetDefault("server.idle_timeout", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.service_name", "racket-advisor")
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up towards the module root.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults fills values an explicit yaml entry may have zeroed.
func applyDefaults(cfg *Config) {
	if cfg.Backend.ScanPath == "" {
		cfg.Backend.ScanPath = "/scan-hand"
	}
	if cfg.Backend.RecommendPath == "" {
		cfg.Backend.RecommendPath = "/recommend-rackets"
	}
	if cfg.Backend.AdminPath == "" {
		cfg.Backend.AdminPath = "/admin"
	}
	if cfg.Backend.UploadField == "" {
		cfg.Backend.UploadField = "file"
	}
	if cfg.Backend.CaptureDistanceCm <= 0 {
		cfg.Backend.CaptureDistanceCm = 30
	}
	if cfg.Backend.RetryBackoff <= 0 {
		cfg.Backend.RetryBackoff = 200
	}
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")

	if cfg.Session.SingleFlight == "" {
		cfg.Session.SingleFlight = SingleFlightReject
	}
	if cfg.Session.Locale == "" {
		cfg.Session.Locale = "ko"
	}
	if cfg.Session.PreviewMaxSize <= 0 {
		cfg.Session.PreviewMaxSize = 320
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 3600
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:8080"
	}
	if cfg.Server.BodyLimitMB <= 0 {
		cfg.Server.BodyLimitMB = 16
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "racket-advisor"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute http(s) URL, got %q", cfg.Backend.BaseURL)
	}

	if cfg.Backend.UploadField != "file" && cfg.Backend.UploadField != "image" {
		return fmt.Errorf("backend.upload_field must be file or image, got %q", cfg.Backend.UploadField)
	}
	if cfg.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if cfg.Backend.MaxRetries < 0 {
		return fmt.Errorf("backend.max_retries must not be negative")
	}

	switch cfg.Session.SingleFlight {
	case SingleFlightReject, SingleFlightCoalesce, SingleFlightNone:
	default:
		return fmt.Errorf("session.single_flight must be reject, coalesce or none, got %q", cfg.Session.SingleFlight)
	}

	switch cfg.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required when cache.backend is redis")
		}
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", cfg.Cache.Backend)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
