package notify

import (
	"context"
	"testing"
	"time"
)

func TestSubscribeReceivesPublished(t *testing.T) {
	hub := NewHub(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx)
	hub.Publish(Event{Kind: "token.revoked", JTI: "jti-1", Timestamp: time.Now()})

	select {
	case evt := <-ch:
		if evt.Kind != "token.revoked" || evt.JTI != "jti-1" {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestCancelClosesChannelAndUnsubscribes(t *testing.T) {
	hub := NewHub(4)
	ctx, cancel := context.WithCancel(context.Background())

	ch := hub.Subscribe(ctx)
	if hub.Subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", hub.Subscribers())
	}

	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if hub.Subscribers() != 0 {
					t.Fatalf("expected zero subscribers, got %d", hub.Subscribers())
				}
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after cancel")
		}
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx)

	// Nobody reads: the bounded buffer fills and further publishes drop.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(Event{Kind: "token.revoked"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	if got := len(ch); got != 2 {
		t.Fatalf("expected buffer of 2 retained events, got %d", got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(0)
	// Must be a no-op, not a panic.
	hub.Publish(Event{Kind: "token.revoked"})
	if hub.Subscribers() != 0 {
		t.Fatalf("expected zero subscribers")
	}
}
