package application

import (
	"context"
	"log/slog"

	"revshare/contexts/finance-core/revenue-ledger/domain/entities"
	domainerrors "revshare/contexts/finance-core/revenue-ledger/domain/errors"
	"revshare/contexts/finance-core/revenue-ledger/ports"
	"revshare/internal/shared/period"
)

type Service struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Record appends a revenue contribution for the period. Records are
// immutable once written.
func (s Service) Record(ctx context.Context, periodLabel string, amount int64) (entities.RevenueRecord, error) {
	logger := ResolveLogger(s.Logger)
	if err := period.Validate(periodLabel); err != nil {
		return entities.RevenueRecord{}, domainerrors.ErrInvalidPeriod
	}
	if amount <= 0 {
		return entities.RevenueRecord{}, domainerrors.ErrInvalidAmount
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.RevenueRecord{}, err
	}
	record := entities.RevenueRecord{
		ID:         id,
		Period:     periodLabel,
		Amount:     amount,
		RecordedAt: s.Clock.Now().UTC(),
	}
	if err := s.Repository.CreateRevenue(ctx, record); err != nil {
		return entities.RevenueRecord{}, err
	}
	logger.Info("revenue recorded",
		"event", "revenue_recorded",
		"module", "finance-core/revenue-ledger",
		"layer", "application",
		"period", periodLabel,
		"amount", amount,
	)
	return record, nil
}

// TotalRevenue sums all records for the period, zero when none exist.
func (s Service) TotalRevenue(ctx context.Context, periodLabel string) (int64, error) {
	if err := period.Validate(periodLabel); err != nil {
		return 0, domainerrors.ErrInvalidPeriod
	}
	return s.Repository.SumByPeriod(ctx, periodLabel)
}

// LatestPeriod resolves the most recently recorded period, falling back to
// the current calendar period when no revenue exists yet.
func (s Service) LatestPeriod(ctx context.Context) (string, error) {
	latest, err := s.Repository.LatestPeriod(ctx)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return period.FromTime(s.Clock.Now()), nil
	}
	return latest, nil
}

func (s Service) ListByPeriod(ctx context.Context, periodLabel string) ([]entities.RevenueRecord, error) {
	if err := period.Validate(periodLabel); err != nil {
		return nil, domainerrors.ErrInvalidPeriod
	}
	return s.Repository.ListByPeriod(ctx, periodLabel)
}
