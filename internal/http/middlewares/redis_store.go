package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisStore counts hits in redis so the limit holds across processes.
// Fixed window: INCR plus an expiry set when the key is first created.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}

	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Incr(c *gin.Context, key string, window time.Duration) (int, time.Duration, error) {
	ctx := c.Request.Context()
	k := s.prefix + ":" + key

	count, err := s.rdb.Incr(ctx, k).Result()

	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := s.rdb.Expire(ctx, k, window).Err(); err != nil {
			return 0, 0, err
		}

		return 1, window, nil
	}

	ttl, err := s.rdb.TTL(ctx, k).Result()

	if err != nil || ttl < 0 {
		ttl = window
	}

	return int(count), ttl, nil
}
