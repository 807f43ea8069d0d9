// Package textcache is a read-through string cache over the key-value store,
// keyed by exact input text, bounded by a TTL. Used for translation results.
package textcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/db"
)

// store is the consumer interface for the text cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a read-through cache for pure string→string functions.
// Concurrent fills of the same key race to populate; last-writer-wins is
// fine because the fill function is pure for a given input.
type Cache struct {
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a read-through text cache. prefix namespaces keys per cached
// function (e.g. "newsbot:trans_query:"). cacheTotal is a counter vec with
// label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Fetch returns the cached value for input, or runs fill and caches the
// result. A fill error is returned as-is and nothing is cached.
func (c *Cache) Fetch(
	ctx context.Context, input string,
	fill func(ctx context.Context, input string) (string, error),
) (string, error) {
	key := c.cacheKey(input)

	if data, err := c.store.Get(ctx, key); err == nil {
		c.incCache("hit")
		return string(data), nil
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("Failed to read text cache", zap.String("key", key), zap.Error(err))
	}

	c.incCache("miss")

	value, err := fill(ctx, input)
	if err != nil {
		return "", fmt.Errorf("fill %s: %w", c.prefix, err)
	}

	if err := c.store.SetWithTTL(ctx, key, []byte(value), c.ttl); err != nil {
		c.logger.Warn("Failed to write text cache", zap.String("key", key), zap.Error(err))
	}

	return value, nil
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) cacheKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return c.prefix + hex.EncodeToString(h[:])
}
