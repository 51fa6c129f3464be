package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/media"
)

// redisMediaInfoCache stores derived metadata as JSON strings.
type redisMediaInfoCache struct {
	rdb *redis.Client
}

func NewRedisMediaInfoCache(rdb *redis.Client) service.MetadataCache {
	return &redisMediaInfoCache{rdb: rdb}
}

func (c *redisMediaInfoCache) Get(ctx context.Context, key string) (*media.Metadata, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var m media.Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("decode cached metadata: %w", err)
	}
	return &m, true, nil
}

func (c *redisMediaInfoCache) Set(ctx context.Context, key string, m *media.Metadata, ttl time.Duration) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
