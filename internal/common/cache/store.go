// internal/common/cache/store.go
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"racket-advisor/internal/common/config"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/models"
)

// MetricsStore keeps the last successful scan of a session so a later
// recommend can reuse it.
type MetricsStore interface {
	Load(ctx context.Context, key string) (models.HandMetrics, bool, error)
	Save(ctx context.Context, key string, m models.HandMetrics) error
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig, log logger.Logger) (MetricsStore, error) {
	ttl := time.Duration(cfg.TTL) * time.Second
	switch cfg.Backend {
	case "", config.CacheMemory:
		return NewMemory(), nil
	case config.CacheRedis:
		store, err := NewRedis(cfg.Redis, ttl)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		log.Info("Metrics cache connected", map[string]interface{}{
			"backend": cfg.Backend,
			"address": cfg.Redis.Address,
			"ttl":     ttl.String(),
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// MemoryStore is the in-process store; entries live as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.HandMetrics
}

func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.HandMetrics)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (models.HandMetrics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.entries[key]
	return m, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, m models.HandMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = m
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
