package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

const defaultTTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func TrendingKey(category domain.Category, limit, days int) string {
	return fmt.Sprintf("trending:%s:limit:%d:days:%d", category, limit, days)
}

func GlobalKey(limit, days int) string {
	return fmt.Sprintf("trending:global:limit:%d:days:%d", limit, days)
}

func ChartKey(category domain.Category, region string, sort domain.SortView, limit int) string {
	return fmt.Sprintf("charts:%s:region:%s:sort:%s:limit:%d", category, region, sort, limit)
}

// Get decodes the value at key into dest. found is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

// Store a value with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}

// Clear cached charts of a category: used when a new snapshot is recorded
func (c *Cache) ClearCharts(ctx context.Context, category domain.Category) error {
	pattern := fmt.Sprintf("charts:%s:*", category)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
