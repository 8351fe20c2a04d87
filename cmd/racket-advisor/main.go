// cmd/racket-advisor/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"racket-advisor/internal/common/cache"
	"racket-advisor/internal/common/config"
	httpclient "racket-advisor/internal/common/http"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/common/observability"
	"racket-advisor/internal/pipeline/admin"
	"racket-advisor/internal/pipeline/recommend"
	"racket-advisor/internal/pipeline/render"
	"racket-advisor/internal/pipeline/scan"
	"racket-advisor/internal/pipeline/session"
	"racket-advisor/internal/pipeline/upload"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// app holds everything a subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	obs    *observability.Observability
	store  cache.MetricsStore

	scanner     *scan.Client
	recommender *recommend.Client
	admin       *admin.Client

	stdout io.Writer
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"run":       runCommand,
	"scan":      scanCommand,
	"recommend": recommendCommand,
	"admin":     adminCommand,
	"serve":     serveCommand,
}

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		help()
		os.Exit(1)
	}

	zapLog := logger.New(logger.Options{Level: "info", Format: "console"})

	cfg, err := loadConfig()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	zapLog = logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	obs := observability.NewNoop()
	if cfg.Metrics.Enabled {
		obs = observability.New(cfg.Metrics.ServiceName)
	}
	defer obs.Shutdown()

	ctx := context.Background()

	a, err := newApp(ctx, cfg, zapLog, log, obs)
	if err != nil {
		zapLog.Fatal("startup failed", zap.Error(err))
	}
	defer a.close()

	if err := cmd(ctx, a, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		zapLog.Sync()
		os.Exit(1)
	}
}

// loadConfig honours CONFIG_FILE before the default search path.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func newApp(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger, obs *observability.Observability) (*app, error) {
	var store cache.MetricsStore
	err := retryWithBackoff(func() error {
		var err error
		store, err = cache.New(ctx, cfg.Cache, log)
		return err
	}, cacheAttempts(cfg.Cache), time.Second, zapLog, "Metrics cache connection")
	if err != nil {
		return nil, err
	}

	http := httpclient.NewClient(httpclient.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    config.GetDuration(cfg.Backend.Timeout),
		MaxRetries: cfg.Backend.MaxRetries,
		Backoff:    config.GetDuration(cfg.Backend.RetryBackoff),
	}, log)

	return &app{
		cfg:    cfg,
		zapLog: zapLog,
		log:    log,
		obs:    obs,
		store:  store,
		scanner: scan.NewClient(http, scan.Options{
			Path:              cfg.Backend.ScanPath,
			UploadField:       cfg.Backend.UploadField,
			CaptureDistanceCm: cfg.Backend.CaptureDistanceCm,
		}, log),
		recommender: recommend.NewClient(http, cfg.Backend.RecommendPath, log),
		admin:       admin.NewClient(http, cfg.Backend.AdminPath, log),
		stdout:      os.Stdout,
	}, nil
}

// cacheAttempts gives a remote cache a few chances to come up; the memory
// store cannot fail.
func cacheAttempts(cfg config.CacheConfig) int {
	if cfg.Backend == config.CacheRedis {
		return 5
	}
	return 1
}

func (a *app) close() {
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("Failed to close metrics cache", map[string]interface{}{"error": err.Error()})
		}
	}
}

// newSession builds a session bound to the shared clients and cache.
func (a *app) newSession(id string, locale render.Locale) *session.Session {
	return session.New(session.Deps{
		Scanner:       a.scanner,
		Recommender:   a.recommender,
		Store:         a.store,
		Previewer:     upload.ThumbnailPreviewer(a.cfg.Session.PreviewMaxSize),
		Observability: a.obs,
		Logger:        a.log,
	}, session.Options{
		ID:                id,
		SingleFlight:      a.cfg.Session.SingleFlight,
		CaptureDistanceCm: a.cfg.Backend.CaptureDistanceCm,
		Locale:            locale,
	})
}

func help() {
	fmt.Println("Usage: racket-advisor <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  run        Scan a hand photo and recommend rackets in one go")
	fmt.Println("  scan       Scan a hand photo and cache the metrics for a session")
	fmt.Println("  recommend  Recommend rackets from a session's cached metrics")
	fmt.Println("  admin      Manage the racket catalog (list, get, create, update, delete, reset, history)")
	fmt.Println("  serve      Serve the session API for the browser front-end")
	fmt.Println("\nRun 'racket-advisor <command> -h' for command flags.")
}
