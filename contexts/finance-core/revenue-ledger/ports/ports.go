package ports

import (
	"context"
	"time"

	"revshare/contexts/finance-core/revenue-ledger/domain/entities"
)

type Repository interface {
	CreateRevenue(ctx context.Context, record entities.RevenueRecord) error
	SumByPeriod(ctx context.Context, period string) (int64, error)
	// LatestPeriod returns the period of the most recently recorded revenue
	// row, or empty when the table is empty.
	LatestPeriod(ctx context.Context) (string, error)
	ListByPeriod(ctx context.Context, period string) ([]entities.RevenueRecord, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
