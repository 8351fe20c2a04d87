// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Backend BackendConfig `mapstructure:"backend"`
	Session SessionConfig `mapstructure:"session"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig points the pipeline clients at the measurement/recommendation service.
type BackendConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	ScanPath          string  `mapstructure:"scan_path"`
	RecommendPath     string  `mapstructure:"recommend_path"`
	AdminPath         string  `mapstructure:"admin_path"`
	UploadField       string  `mapstructure:"upload_field"`
	CaptureDistanceCm float64 `mapstructure:"capture_distance_cm"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds, 0 = none
	MaxRetries        int     `mapstructure:"max_retries"`
	RetryBackoff      int     `mapstructure:"retry_backoff"` // milliseconds
}

type SessionConfig struct {
	SingleFlight   string `mapstructure:"single_flight"` // reject | coalesce | none
	Locale         string `mapstructure:"locale"`
	PreviewMaxSize int    `mapstructure:"preview_max_size"` // pixels
}

type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // memory | redis
	TTL     int         `mapstructure:"ttl"`     // seconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
	// IdleTimeout in seconds; sessions untouched this long are dropped.
	// Zero falls back to cache.ttl.
	IdleTimeout int `mapstructure:"idle_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

const (
	SingleFlightReject   = "reject"
	SingleFlightCoalesce = "coalesce"
	SingleFlightNone     = "none"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)
