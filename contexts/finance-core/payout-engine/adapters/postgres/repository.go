package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"revshare/contexts/finance-core/payout-engine/domain/entities"
	"revshare/contexts/finance-core/payout-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
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

func (r *Repository) CreatePayout(ctx context.Context, payout entities.Payout) error {
	row := payoutModelFromEntity(payout)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// A unique violation on (contributor_handle, period) means a
		// concurrent run already paid this contributor; the row we wanted
		// to write exists, which is the state we were after.
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("payout_repo_create_failed", err,
			"contributor", payout.ContributorHandle,
			"period", payout.Period,
		)
	}
	return nil
}

func (r *Repository) HasPayout(ctx context.Context, contributorHandle string, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&payoutModel{}).
		Where("contributor_handle = ?", contributorHandle).
		Where("period = ?", period).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("payout_repo_has_payout_failed", err,
			"contributor", contributorHandle,
			"period", period,
		)
	}
	return count > 0, nil
}

func (r *Repository) ListPayouts(ctx context.Context, period string) ([]entities.Payout, error) {
	query := r.db.WithContext(ctx).Model(&payoutModel{})
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var rows []payoutModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("payout_repo_list_failed", err, "period", period)
	}

	payouts := make([]entities.Payout, 0, len(rows))
	for _, row := range rows {
		payouts = append(payouts, row.toEntity())
	}
	return payouts, nil
}

// QualifyingEarnings joins entitlements against contributors: only handles
// with a linked payout destination and a positive entitlement sum for the
// period qualify. The handle ordering keeps allocation deterministic.
func (r *Repository) QualifyingEarnings(ctx context.Context, period string) ([]ports.ContributorEarnings, error) {
	type joinRow struct {
		Handle      string
		Destination string
		Total       int64
	}

	var rows []joinRow
	err := r.db.WithContext(ctx).
		Table("entitlements").
		Select("contributors.handle AS handle, contributors.payout_destination AS destination, SUM(entitlements.amount) AS total").
		Joins("JOIN contributors ON contributors.handle = entitlements.contributor_handle").
		Where("entitlements.period = ?", period).
		Where("contributors.payout_destination <> ''").
		Group("contributors.handle, contributors.payout_destination").
		Having("SUM(entitlements.amount) > 0").
		Order("contributors.handle ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("payout_repo_earnings_failed", err, "period", period)
	}

	earnings := make([]ports.ContributorEarnings, 0, len(rows))
	for _, row := range rows {
		earnings = append(earnings, ports.ContributorEarnings{
			Handle:      row.Handle,
			Destination: row.Destination,
			Total:       row.Total,
		})
	}
	return earnings, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "finance-core/payout-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("payout repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type payoutModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	ContributorHandle string    `gorm:"column:contributor_handle;uniqueIndex:idx_payouts_contributor_period"`
	Period            string    `gorm:"column:period;uniqueIndex:idx_payouts_contributor_period"`
	Amount            int64     `gorm:"column:amount"`
	TransferID        string    `gorm:"column:transfer_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (payoutModel) TableName() string {
	return "payouts"
}

func payoutModelFromEntity(payout entities.Payout) payoutModel {
	return payoutModel{
		ID:                payout.ID,
		ContributorHandle: payout.ContributorHandle,
		Period:            payout.Period,
		Amount:            payout.Amount,
		TransferID:        payout.TransferID,
		CreatedAt:         payout.CreatedAt,
	}
}

func (m payoutModel) toEntity() entities.Payout {
	return entities.Payout{
		ID:                m.ID,
		ContributorHandle: m.ContributorHandle,
		Period:            m.Period,
		Amount:            m.Amount,
		TransferID:        m.TransferID,
		CreatedAt:         m.CreatedAt,
	}
}
