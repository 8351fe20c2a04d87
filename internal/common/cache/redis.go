// internal/common/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"racket-advisor/internal/common/config"
	"racket-advisor/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "advisor:metrics:"

// RedisStore keeps metrics as JSON strings with a TTL so abandoned sessions
// expire on their own.
type RedisStore struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. A zero ttl keeps entries forever.
func NewRedis(cfg config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisStore{Client: rdb, ttl: ttl}, nil
}

// Ping tests the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (models.HandMetrics, bool, error) {
	raw, err := s.Client.Get(ctx, keyPrefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return models.HandMetrics{}, false, nil
	}
	if err != nil {
		return models.HandMetrics{}, false, fmt.Errorf("load metrics %s: %w", key, err)
	}

	var m models.HandMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.HandMetrics{}, false, fmt.Errorf("decode metrics %s: %w", key, err)
	}
	return m, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, m models.HandMetrics) error {
	encoded, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode metrics %s: %w", key, err)
	}
	if err := s.Client.Set(ctx, keyPrefix+key, encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("save metrics %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete metrics %s: %w", key, err)
	}
	return nil
}
