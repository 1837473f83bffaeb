package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/metrics"
	"mentor-matching/internal/models"
)

const cacheKeyPrefix = "mentor-matching:profile:"

// CachedReader serves profiles from redis before falling back to next.
// Cache failures are logged and never fail a read.
//
// Nothing in this service writes profiles, so an edit made elsewhere is
// visible only once the cached copy expires: reads may be stale for up to
// ttl (matching.cache_ttl). Writers sharing the redis instance can call
// Invalidate to make an edit visible at once.
type CachedReader struct {
	next   ProfileReader
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedReader(next ProfileReader, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedReader {
	return &CachedReader{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile-cache"}),
	}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (c *CachedReader) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	val, err := c.redis.Get(ctx, cacheKey(id)).Result()
	switch {
	case err == nil:
		var p models.Profile
		if jsonErr := json.Unmarshal([]byte(val), &p); jsonErr == nil {
			metrics.ProfileCacheLookups.WithLabelValues("hit").Inc()
			return &p, nil
		}
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.ProfileCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("profile cache read failed", map[string]interface{}{
			"profileId": id,
			"error":     err.Error(),
		})
	}

	p, err := c.next.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(p)
	if err == nil {
		err = c.redis.Set(ctx, cacheKey(id), data, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("profile cache write failed", map[string]interface{}{
			"profileId": id,
			"error":     err.Error(),
		})
	}
	return p, nil
}

// Invalidate drops cached copies of the given profiles.
func (c *CachedReader) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	return c.redis.Del(ctx, keys...).Err()
}
