package ports

import (
	"context"
	"time"

	"revshare/contexts/finance-core/payout-engine/domain/entities"
	"revshare/internal/shared/events"
)

type Repository interface {
	CreatePayout(ctx context.Context, payout entities.Payout) error
	HasPayout(ctx context.Context, contributorHandle string, period string) (bool, error)
	// ListPayouts returns payouts for the period, or all payouts when the
	// period is empty, ordered by creation time ascending.
	ListPayouts(ctx context.Context, period string) ([]entities.Payout, error)
}

// RevenueSource exposes the revenue ledger's period totals. The revenue
// ledger's application service satisfies it directly.
type RevenueSource interface {
	TotalRevenue(ctx context.Context, period string) (int64, error)
	LatestPeriod(ctx context.Context) (string, error)
}

// ContributorEarnings is one contributor's entitlement sum for a period.
type ContributorEarnings struct {
	Handle      string
	Destination string
	Total       int64
}

// EarningsSource returns the contributors qualifying for a period's pool:
// a linked payout destination and a positive entitlement sum. Rows are
// ordered by handle ascending.
type EarningsSource interface {
	QualifyingEarnings(ctx context.Context, period string) ([]ContributorEarnings, error)
}

type TransferRequest struct {
	Amount      int64
	Currency    string
	Destination string
	Description string
	Metadata    map[string]string
}

// TransferGateway moves money to a contributor's destination and returns
// the provider's transfer id.
type TransferGateway interface {
	CreateTransfer(ctx context.Context, req TransferRequest) (string, error)
}

// RunLock serializes distribution runs per period. Acquire returns
// ErrDistributionInProgress from the domain errors package when another
// run holds the period.
type RunLock interface {
	Acquire(ctx context.Context, period string) (release func(), err error)
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
