// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	gemini "mailtrade_backend/internal/feature/extraction/adapters/gemini"
	extusecase "mailtrade_backend/internal/feature/extraction/usecase"
	"mailtrade_backend/internal/platform/cache"
	"mailtrade_backend/internal/shared/ratelimiter"
)

const (
	defaultModelCallsPerMinute = 10
	defaultCacheTTL            = 6 * time.Hour
)

// NewExtractionUsecase creates the full extraction stack: heuristic first,
// Gemini fallback wrapped in a Redis cache, behind a rate limiter.
// If rdb is nil the cache layer passes calls straight through.
func NewExtractionUsecase(ctx context.Context, rdb *redis.Client) (*extusecase.ExtractUsecase, error) {
	ai, err := gemini.NewExtractor(ctx, gemini.LoadConfig())
	if err != nil {
		return nil, err
	}

	cached := cache.NewCachingExtractor(rdb, extractionCacheTTL(), ai, "extract")
	limiter := ratelimiter.NewRateLimiter(modelCallsPerMinute(), time.Minute)

	return extusecase.NewExtractUsecase(extusecase.NewHeuristicExtractor(), cached, limiter), nil
}

func modelCallsPerMinute() int {
	if v := os.Getenv("GEMINI_CALLS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultModelCallsPerMinute
}

func extractionCacheTTL() time.Duration {
	if v := os.Getenv("EXTRACTION_CACHE_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return defaultCacheTTL
}
