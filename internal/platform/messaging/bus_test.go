package messaging

import (
	"context"
	"testing"
	"time"

	"revshare/internal/shared/events"
)

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(nil)
	received := make(chan events.Envelope, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := bus.Subscribe(ctx, "payouts.run_completed", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	envelope := events.Envelope{EventID: "evt-1", EventType: "payouts.run_completed"}
	if err := bus.Publish(context.Background(), "payouts.run_completed", envelope); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBusIgnoresTopicsWithoutSubscribers(t *testing.T) {
	bus := NewBus(nil)
	if err := bus.Publish(context.Background(), "earnings.sale_recorded", events.Envelope{EventID: "evt-2"}); err != nil {
		t.Fatalf("publish to empty topic failed: %v", err)
	}
}
