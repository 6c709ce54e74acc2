package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobooks/internal/usecase"
)

// ReportCache implements usecase.ReportCache using Redis.
type ReportCache struct {
	client *redis.Client
	prefix string
}

// NewReportCache creates a new ReportCache.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: "gobooks:report:",
	}
}

// Get returns usecase.ErrCacheMiss when the key is absent.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value with TTL.
func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Generation returns the company's current cache generation, 0 if never bumped.
func (c *ReportCache) Generation(ctx context.Context, companyID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read report generation: %w", err)
	}
	return gen, nil
}

// Invalidate bumps the company's generation. Entries under older
// generations are never read again and expire on their own TTL.
func (c *ReportCache) Invalidate(ctx context.Context, companyID string) error {
	return c.client.Incr(ctx, c.generationKey(companyID)).Err()
}

func (c *ReportCache) generationKey(companyID string) string {
	return c.prefix + "gen:" + companyID
}
