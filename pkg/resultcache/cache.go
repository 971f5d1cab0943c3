package resultcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// Traffic changes faster than forecasts so ETA entries expire much sooner
	DefaultEstimateTTL = 1 * time.Minute
	DefaultWeatherTTL  = 5 * time.Minute
)

// Cache is a read-through, time-bucketed memo of estimator & weather results
// shared across concurrent requests. Concurrent misses for the same key are
// coalesced into a single in-flight fetch
type Cache struct {
	Store *cache.Cache[string]

	EstimateTTL time.Duration
	WeatherTTL  time.Duration

	group singleflight.Group
}

func New(redisClient *redis.Client) *Cache {
	redisStore := redisstore.NewRedis(redisClient)

	return &Cache{
		Store:       cache.New[string](redisStore),
		EstimateTTL: DefaultEstimateTTL,
		WeatherTTL:  DefaultWeatherTTL,
	}
}

// Lookup returns the cached value for key or runs fetch exactly once for all
// concurrent callers & populates the entry. The fetch deliberately runs on a
// detached context - a caller abandoning the request must not cancel a fetch
// other waiters still depend on. Expired entries are purged by the store's TTL
func Lookup[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var empty T

	resultChannel := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx := context.Background()

		if cachedValue, err := c.Store.Get(fetchCtx, key); err == nil {
			var value T
			if err := json.Unmarshal([]byte(cachedValue), &value); err == nil {
				return value, nil
			}

			log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		}

		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		valueJSON, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		if err := c.Store.Set(fetchCtx, key, string(valueJSON), store.WithExpiration(ttl)); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
		}

		return value, nil
	})

	select {
	case result := <-resultChannel:
		if result.Err != nil {
			return empty, result.Err
		}

		return result.Val.(T), nil
	case <-ctx.Done():
		return empty, ctx.Err()
	}
}
