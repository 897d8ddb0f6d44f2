// Package cache provides an optional Redis-backed TTL cache for
// analysis responses. Identical documents produce identical analyses,
// so repeated lookups of the same terms page skip the engine entirely.
// Cache failures always degrade to a miss, never to a request error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clearterms/clearterms/internal/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AnalysisCache caches analysis responses keyed by document content
type AnalysisCache struct {
	client *redis.Client
	cfg    config.CacheConfig
	logger *zap.Logger
	hits   int64
	misses int64
}

// New creates a Redis-backed analysis cache and verifies the connection
func New(cfg config.CacheConfig, logger *zap.Logger) (*AnalysisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = cfg.MaxConnections
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	c := &AnalysisCache{
		client: client,
		cfg:    cfg,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Analysis cache initialized",
		zap.String("redis_url", maskRedisURL(cfg.RedisURL)),
		zap.Duration("default_ttl", cfg.DefaultTTL),
	)

	return c, nil
}

// Get returns the cached analysis for the given normalized text, or nil
// on a miss. Lookup errors are logged and reported as misses.
func (c *AnalysisCache) Get(ctx context.Context, normalizedText string) *CachedAnalysis {
	key := c.key(normalizedText)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return nil
	} else if err != nil {
		c.logger.Error("Cache lookup failed", zap.Error(err))
		atomic.AddInt64(&c.misses, 1)
		return nil
	}

	var cached CachedAnalysis
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		c.logger.Error("Failed to unmarshal cached analysis", zap.Error(err))
		c.client.Del(ctx, key)
		atomic.AddInt64(&c.misses, 1)
		return nil
	}

	atomic.AddInt64(&c.hits, 1)
	c.logger.Debug("Cache hit", zap.String("key", key))
	return &cached
}

// Store caches an analysis response with the configured TTL
func (c *AnalysisCache) Store(ctx context.Context, normalizedText string, cached *CachedAnalysis) error {
	cached.CachedAt = time.Now()

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis for caching: %w", err)
	}

	key := c.key(normalizedText)
	if err := c.client.Set(ctx, key, data, c.cfg.DefaultTTL).Err(); err != nil {
		c.logger.Error("Failed to cache analysis", zap.Error(err))
		return fmt.Errorf("failed to cache analysis: %w", err)
	}

	c.logger.Debug("Analysis cached", zap.String("key", key))
	return nil
}

// GetStats returns cache performance counters
func (c *AnalysisCache) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	keys, err := c.client.DBSize(ctx).Result()
	if err == nil {
		stats.TotalKeys = keys
	}

	return stats, nil
}

// Clear removes all cached analyses under this cache's prefix
func (c *AnalysisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.cfg.KeyPrefix+":an:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	c.logger.Info("Cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Close closes the Redis connection
func (c *AnalysisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// key derives a deterministic cache key from document content
func (c *AnalysisCache) key(normalizedText string) string {
	sum := sha256.Sum256([]byte(normalizedText))
	return fmt.Sprintf("%s:an:%s", c.cfg.KeyPrefix, hex.EncodeToString(sum[:])[:16])
}

// maskRedisURL masks credentials in a Redis URL for logging
func maskRedisURL(url string) string {
	if !strings.Contains(url, "@") {
		return url
	}
	parts := strings.SplitN(url, "@", 2)
	if idx := strings.LastIndex(parts[0], ":"); idx > strings.Index(parts[0], "//") {
		parts[0] = parts[0][:idx+1] + "***"
	}
	return strings.Join(parts, "@")
}
