// Package notify fans finalized rankings out to subscribers.
//
// Publishing is best effort: callers use Publish, which never blocks on a
// failing backend and never returns an error to the request path.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/actuallystonmai/charts-service/internal/logging"
	"github.com/actuallystonmai/charts-service/internal/metrics"
)

const (
	EventRankingsUpdated = "rankings.updated"
	EventPositionUpdated = "rankings.position"
	EventGlobalTrending  = "trending.global"
)

// Notifier publishes an event payload to subscribers.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
}

// Envelope is the wire shape of every published event.
type Envelope struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	PublishedAt time.Time `json:"published_at"`
	Payload     any       `json:"payload"`
}

func newEnvelope(event string, payload any) Envelope {
	return Envelope{
		ID:          uuid.NewString(),
		Event:       event,
		PublishedAt: time.Now().UTC(),
		Payload:     payload,
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Publish sends one event and swallows any failure, including panics in n.
func Publish(ctx context.Context, n Notifier, event string, payload any) {
	if n == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			logging.Ctx(ctx).Warn().Str("event", event).Str("panic", fmt.Sprint(r)).Msg("notifier panicked")
		}
	}()

	if err := n.Publish(ctx, event, payload); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("event", event).Msg("publish failed")
	}
}
