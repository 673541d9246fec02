package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	err    error
	panic  bool
	block  chan struct{}
}

func (r *recordingNotifier) Publish(_ context.Context, event string, _ any) error {
	if r.block != nil {
		<-r.block
	}
	if r.panic {
		panic("boom")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingNotifier) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestPublishSwallowsErrors(t *testing.T) {
	ctx := context.Background()

	Publish(ctx, &recordingNotifier{err: errors.New("redis down")}, EventRankingsUpdated, nil)
	Publish(ctx, &recordingNotifier{panic: true}, EventRankingsUpdated, nil)
	Publish(ctx, nil, EventRankingsUpdated, nil)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	next := &recordingNotifier{err: errors.New("redis down")}
	b := NewBreaker(next, BreakerConfig{Name: "test", FailureThreshold: 2, OpenTimeout: time.Minute})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := b.Publish(ctx, EventPositionUpdated, i); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	if b.State() != "open" {
		t.Fatalf("expected open breaker, got %s", b.State())
	}

	err := b.Publish(ctx, EventPositionUpdated, 3)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if n := len(next.Events()); n != 2 {
		t.Errorf("expected 2 calls to reach the backend, got %d", n)
	}
}

func TestAsyncDelivers(t *testing.T) {
	next := &recordingNotifier{}
	a := NewAsync(next, 8, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	for _, e := range []string{EventRankingsUpdated, EventPositionUpdated} {
		if err := a.Publish(ctx, e, nil); err != nil {
			t.Fatalf("publish %s: %v", e, err)
		}
	}
	// request finished; delivery must not depend on it
	cancel()
	a.Close()

	got := next.Events()
	if len(got) != 2 || got[0] != EventRankingsUpdated || got[1] != EventPositionUpdated {
		t.Errorf("unexpected delivered events: %v", got)
	}
}

func TestAsyncDropsWhenFull(t *testing.T) {
	next := &recordingNotifier{block: make(chan struct{})}
	a := NewAsync(next, 1, time.Second)
	ctx := context.Background()

	// first job is taken by the worker and blocks, second fills the queue
	_ = a.Publish(ctx, "e1", nil)
	deadline := time.Now().Add(time.Second)
	for len(a.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := a.Publish(ctx, "e2", nil); err != nil {
		t.Fatalf("expected e2 to be queued, got %v", err)
	}
	if err := a.Publish(ctx, "e3", nil); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	close(next.block)
	a.Close()
	if n := len(next.Events()); n != 2 {
		t.Errorf("expected 2 delivered events, got %d", n)
	}
}

func TestRedisPublisherChannel(t *testing.T) {
	p := NewRedisPublisher(nil, "charts")
	if got := p.Channel(EventRankingsUpdated); got != "charts:rankings.updated" {
		t.Errorf("unexpected channel %s", got)
	}
	if got := NewRedisPublisher(nil, "").Channel("x"); got != "x" {
		t.Errorf("unexpected channel %s", got)
	}
}

func TestRedisPublisherUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	p := NewRedisPublisher(client, "charts")
	if err := p.Publish(context.Background(), EventRankingsUpdated, map[string]int{"n": 1}); err == nil {
		t.Error("expected error from unreachable redis")
	}
}
