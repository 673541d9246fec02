package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/actuallystonmai/charts-service/internal/metrics"
)

var ErrQueueFull = errors.New("notification queue full")

type job struct {
	ctx     context.Context
	event   string
	payload any
}

// Async hands events to a background worker so publishing never blocks the
// caller. Events are dropped when the queue is full.
type Async struct {
	next    Notifier
	queue   chan job
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

func NewAsync(next Notifier, size int, timeout time.Duration) *Async {
	if size <= 0 {
		size = 1
	}
	a := &Async{
		next:    next,
		queue:   make(chan job, size),
		timeout: timeout,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues the event. The request context is detached from its
// cancellation so delivery outlives the response.
func (a *Async) Publish(ctx context.Context, event string, payload any) error {
	select {
	case a.queue <- job{ctx: context.WithoutCancel(ctx), event: event, payload: payload}:
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for j := range a.queue {
		ctx := j.ctx
		var cancel context.CancelFunc = func() {}
		if a.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, a.timeout)
		}
		Publish(ctx, a.next, j.event, j.payload)
		cancel()
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
// Publish must not be called after Close.
func (a *Async) Close() {
	a.closeOnce.Do(func() { close(a.queue) })
	<-a.done
}
