package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{TrendingKey(domain.CategoryTrack, 10, 7), "trending:song:limit:10:days:7"},
		{GlobalKey(20, 30), "trending:global:limit:20:days:30"},
		{ChartKey(domain.CategoryClip, "NG", domain.SortAllTime, 50), "charts:video:region:NG:sort:all-time:limit:50"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestCacheUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewCache(client, 0)
	if c.ttl != defaultTTL {
		t.Errorf("expected default ttl, got %s", c.ttl)
	}

	var dest []domain.ChartItem
	found, err := c.Get(context.Background(), ChartKey(domain.CategoryTrack, "", domain.SortThisWeek, 10), &dest)
	if err == nil || found {
		t.Errorf("expected error and miss, got found=%v err=%v", found, err)
	}
	if err := c.Set(context.Background(), "k", dest); err == nil {
		t.Error("expected set error from unreachable redis")
	}
}
