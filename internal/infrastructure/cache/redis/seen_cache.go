package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCache remembers recently ingested job hashes so poll cycles can skip
// postings that have not changed since the last run.
type SeenCache struct {
	client *redis.Client
	prefix string
}

// NewClient parses redisURL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewSeenCache(client *redis.Client) *SeenCache {
	return &SeenCache{client: client, prefix: "job_seen:"}
}

func (c *SeenCache) Seen(ctx context.Context, jobHash string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+jobHash).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (c *SeenCache) MarkSeen(ctx context.Context, jobHash string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := c.client.Set(ctx, c.prefix+jobHash, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
