package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"revshare/contexts/finance-core/revenue-ledger/domain/entities"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateRevenue(ctx context.Context, record entities.RevenueRecord) error {
	row := revenueModelFromEntity(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("revenue_repo_create_failed", err,
			"period", record.Period,
		)
	}
	return nil
}

func (r *Repository) SumByPeriod(ctx context.Context, period string) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).
		Model(&revenueModel{}).
		Select("SUM(amount)").
		Where("period = ?", period).
		Scan(&total).Error; err != nil {
		return 0, r.logError("revenue_repo_sum_failed", err,
			"period", period,
		)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *Repository) LatestPeriod(ctx context.Context) (string, error) {
	var row revenueModel
	err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", r.logError("revenue_repo_latest_period_failed", err)
	}
	return row.Period, nil
}

func (r *Repository) ListByPeriod(ctx context.Context, period string) ([]entities.RevenueRecord, error) {
	var rows []revenueModel
	if err := r.db.WithContext(ctx).
		Where("period = ?", period).
		Order("recorded_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("revenue_repo_list_failed", err,
			"period", period,
		)
	}
	records := make([]entities.RevenueRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}
	return records, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "finance-core/revenue-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("revenue ledger repository operation failed", fields...)
	return err
}

type revenueModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Period     string    `gorm:"column:period;index"`
	Amount     int64     `gorm:"column:amount"`
	RecordedAt time.Time `gorm:"column:recorded_at;index"`
}

func (revenueModel) TableName() string {
	return "revenues"
}

func revenueModelFromEntity(record entities.RevenueRecord) revenueModel {
	return revenueModel{
		ID:         record.ID,
		Period:     record.Period,
		Amount:     record.Amount,
		RecordedAt: record.RecordedAt,
	}
}

func (m revenueModel) toEntity() entities.RevenueRecord {
	return entities.RevenueRecord{
		ID:         m.ID,
		Period:     m.Period,
		Amount:     m.Amount,
		RecordedAt: m.RecordedAt,
	}
}
