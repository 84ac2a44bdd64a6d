package workers

import (
	"context"
	"log/slog"

	"revshare/contexts/earnings-core/entitlement-ledger/application"
	"revshare/internal/shared/events"
)

type Subscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

// EarningsAuditConsumer mirrors earning events into the audit log stream.
type EarningsAuditConsumer struct {
	Subscriber    Subscriber
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c EarningsAuditConsumer) Start(ctx context.Context) error {
	for _, topic := range []string{application.TopicSaleRecorded, application.TopicSessionApproved} {
		if err := c.Subscriber.Subscribe(ctx, topic, c.ConsumerGroup, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c EarningsAuditConsumer) handle(_ context.Context, event events.Envelope) error {
	application.ResolveLogger(c.Logger).Info("earning event observed",
		"event", "earnings_audit",
		"module", "earnings-core/entitlement-ledger",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"entity_type", event.EntityType,
		"entity_id", event.EntityID,
	)
	return nil
}
