// Package cache provides Redis-based storage for market snapshots with
// graceful degradation. When Redis is unavailable, operations return
// ErrCacheUnavailable and callers skip the affected symbol for the cycle.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pattern-engine/config"
	"pattern-engine/internal/market"
)

// Key formats
const (
	keySnapshot = "snapshot:%s"
	keySymbols  = "snapshot:symbols"
)

// SnapshotTTL bounds snapshot staleness. A snapshot older than the shortest
// timeframe's bar interval is useless to the detectors.
const SnapshotTTL = 5 * time.Minute

// SnapshotStore reads and writes market snapshots in Redis. A small circuit
// breaker marks the store unhealthy after repeated failures and probes for
// recovery in the background.
type SnapshotStore struct {
	client *redis.Client
	logger zerolog.Logger

	mu           sync.RWMutex
	healthy      bool
	failureCount int
	lastCheck    time.Time

	maxFailures   int
	checkInterval time.Duration
}

// NewSnapshotStore connects to Redis and verifies connectivity. A failed
// initial ping returns the store in degraded mode rather than an error.
func NewSnapshotStore(cfg config.RedisConfig, logger zerolog.Logger) (*SnapshotStore, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is not enabled in configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	s := &SnapshotStore{
		client:        client,
		logger:        logger.With().Str("component", "snapshot-store").Logger(),
		maxFailures:   3,
		checkInterval: 30 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("Initial Redis connection failed, starting degraded")
		return s, nil
	}

	s.healthy = true
	s.lastCheck = time.Now()
	s.logger.Info().Str("address", cfg.Address).Msg("Redis connected")

	return s, nil
}

// IsHealthy returns whether Redis is currently available.
func (s *SnapshotStore) IsHealthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy
}

func (s *SnapshotStore) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failureCount++
	if s.failureCount >= s.maxFailures {
		if s.healthy {
			s.logger.Warn().Int("failures", s.failureCount).Msg("Circuit breaker open, Redis marked unhealthy")
		}
		s.healthy = false
	}
}

func (s *SnapshotStore) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.healthy {
		s.logger.Info().Msg("Circuit breaker closed, Redis recovered")
	}
	s.healthy = true
	s.failureCount = 0
	s.lastCheck = time.Now()
}

// checkHealth probes a degraded connection in the background once per
// check interval.
func (s *SnapshotStore) checkHealth() {
	s.mu.RLock()
	shouldCheck := !s.healthy && time.Since(s.lastCheck) >= s.checkInterval
	s.mu.RUnlock()

	if !shouldCheck {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx).Err(); err == nil {
			s.recordSuccess()
		}
	}()
}

// StoreSnapshot writes one snapshot and registers its symbol.
func (s *SnapshotStore) StoreSnapshot(ctx context.Context, snap *market.Snapshot) error {
	if !s.IsHealthy() {
		s.checkHealth()
		return ErrCacheUnavailable
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", snap.Symbol, err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(keySnapshot, snap.Symbol), data, SnapshotTTL)
	pipe.SAdd(ctx, keySymbols, snap.Symbol)
	if _, err := pipe.Exec(ctx); err != nil {
		s.recordFailure()
		return fmt.Errorf("store snapshot for %s: %w", snap.Symbol, err)
	}

	s.recordSuccess()
	return nil
}

// GetSnapshot reads the cached snapshot for a symbol. A missing or expired
// key returns ErrSnapshotNotFound.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, symbol string) (*market.Snapshot, error) {
	if !s.IsHealthy() {
		s.checkHealth()
		return nil, ErrCacheUnavailable
	}

	data, err := s.client.Get(ctx, fmt.Sprintf(keySnapshot, symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		s.recordFailure()
		return nil, fmt.Errorf("get snapshot for %s: %w", symbol, err)
	}
	s.recordSuccess()

	var snap market.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot for %s: %w", symbol, err)
	}
	return &snap, nil
}

// Symbols lists every symbol with a registered snapshot key.
func (s *SnapshotStore) Symbols(ctx context.Context) ([]string, error) {
	if !s.IsHealthy() {
		s.checkHealth()
		return nil, ErrCacheUnavailable
	}

	symbols, err := s.client.SMembers(ctx, keySymbols).Result()
	if err != nil {
		s.recordFailure()
		return nil, fmt.Errorf("list snapshot symbols: %w", err)
	}
	s.recordSuccess()
	return symbols, nil
}

// Close releases the Redis connection.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
