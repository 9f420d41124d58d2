// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mailtrade_backend/internal/feature/extraction/domain/entity"
	"mailtrade_backend/internal/feature/extraction/usecase"
)

// CachingExtractor decorates an AIExtractor with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying extractor. Identical emails replayed by the poller
// hit the cache instead of spending another model call.
type CachingExtractor struct {
	inner     usecase.AIExtractor
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingExtractor decorates an AIExtractor with Redis caching.
// If ttl is 0, it defaults to 6 hours. If namespace is empty, it uses "extract".
func NewCachingExtractor(rdb *redis.Client, ttl time.Duration, inner usecase.AIExtractor, namespace string) *CachingExtractor {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if namespace == "" {
		namespace = "extract"
	}
	return &CachingExtractor{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

var _ usecase.AIExtractor = (*CachingExtractor)(nil)

// Extract retrieves a candidate, checking cache first then falling back to the model.
func (c *CachingExtractor) Extract(ctx context.Context, in entity.ExtractionInput) (entity.TransactionCandidate, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Extract(ctx, in)
	}

	key := c.cacheKey(in)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.TransactionCandidate
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the model
	out, err := c.inner.Extract(ctx, in)
	if err != nil {
		return entity.TransactionCandidate{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key from the content of the email. The hash keeps
// arbitrary subject/body text out of the Redis keyspace.
func (c *CachingExtractor) cacheKey(in entity.ExtractionInput) string {
	h := sha256.New()
	h.Write([]byte(in.Subject))
	h.Write([]byte{0})
	h.Write([]byte(in.Body))
	h.Write([]byte{0})
	h.Write([]byte(in.From))
	return fmt.Sprintf("%s:%s", c.namespace, hex.EncodeToString(h.Sum(nil)))
}
