package notify

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/charts-service/internal/metrics"
)

// RedisPublisher publishes events on Redis pub/sub channels named
// "<prefix>:<event>".
type RedisPublisher struct {
	client redis.Cmdable
	prefix string
}

func NewRedisPublisher(client redis.Cmdable, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Channel(event string) string {
	if p.prefix == "" {
		return event
	}
	return p.prefix + ":" + event
}

func (p *RedisPublisher) Publish(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(newEnvelope(event, payload))
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if err := p.client.Publish(ctx, p.Channel(event), data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	return nil
}
