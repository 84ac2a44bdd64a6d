package ports

import (
	"context"
	"time"

	"revshare/contexts/earnings-core/entitlement-ledger/domain/entities"
	"revshare/internal/shared/events"
)

type Repository interface {
	// CreateSale inserts the sale, or returns the existing row (created=false)
	// when the transaction id is already recorded.
	CreateSale(ctx context.Context, sale entities.SaleEvent) (entities.SaleEvent, bool, error)
	GetSaleByTransaction(ctx context.Context, transactionID string) (entities.SaleEvent, error)

	// CreateEntitlement inserts the entitlement, or returns the existing row
	// (created=false) when the (source_table, source_id, category) reference
	// is already recorded.
	CreateEntitlement(ctx context.Context, entitlement entities.Entitlement) (entities.Entitlement, bool, error)
	SumEarnings(ctx context.Context, contributorHandle string, period string) ([]entities.EarningsSummary, error)

	CreateSession(ctx context.Context, session entities.SupportSession) error
	GetSession(ctx context.Context, sessionID string) (entities.SupportSession, error)
	UpdateSession(ctx context.Context, session entities.SupportSession) error
}

// ContributorDirectory registers contributor rows on first earning event.
type ContributorDirectory interface {
	Ensure(ctx context.Context, handle string) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
