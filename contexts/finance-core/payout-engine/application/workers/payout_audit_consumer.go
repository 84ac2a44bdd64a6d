package workers

import (
	"context"
	"log/slog"

	"revshare/contexts/finance-core/payout-engine/application"
	"revshare/internal/shared/events"
)

type Subscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

// PayoutAuditConsumer mirrors completed distribution runs into the audit
// log stream.
type PayoutAuditConsumer struct {
	Subscriber    Subscriber
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c PayoutAuditConsumer) Start(ctx context.Context) error {
	return c.Subscriber.Subscribe(ctx, application.TopicRunCompleted, c.ConsumerGroup, c.handle)
}

func (c PayoutAuditConsumer) handle(_ context.Context, event events.Envelope) error {
	application.ResolveLogger(c.Logger).Info("distribution run observed",
		"event", "payout_audit",
		"module", "finance-core/payout-engine",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"entity_id", event.EntityID,
	)
	return nil
}
