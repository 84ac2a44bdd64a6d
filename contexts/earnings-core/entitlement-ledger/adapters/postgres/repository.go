package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"revshare/contexts/earnings-core/entitlement-ledger/domain/entities"
	domainerrors "revshare/contexts/earnings-core/entitlement-ledger/domain/errors"

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

func (r *Repository) CreateSale(ctx context.Context, sale entities.SaleEvent) (entities.SaleEvent, bool, error) {
	row := saleModelFromEntity(sale)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := r.GetSaleByTransaction(ctx, sale.TransactionID)
			if lookupErr != nil {
				// The conflicting row is not visible yet; the caller owns
				// the retry.
				return entities.SaleEvent{}, false, lookupErr
			}
			return existing, false, nil
		}
		return entities.SaleEvent{}, false, r.logError("ledger_repo_create_sale_failed", err,
			"transaction_id", sale.TransactionID,
		)
	}
	return sale, true, nil
}

func (r *Repository) GetSaleByTransaction(ctx context.Context, transactionID string) (entities.SaleEvent, error) {
	var row saleModel
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", strings.TrimSpace(transactionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SaleEvent{}, domainerrors.ErrSaleNotFound
		}
		return entities.SaleEvent{}, r.logError("ledger_repo_get_sale_failed", err,
			"transaction_id", strings.TrimSpace(transactionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateEntitlement(ctx context.Context, entitlement entities.Entitlement) (entities.Entitlement, bool, error) {
	row, err := entitlementModelFromEntity(entitlement)
	if err != nil {
		return entities.Entitlement{}, false, err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := r.getEntitlementBySource(ctx, entitlement.Source, entitlement.Category)
			if lookupErr != nil {
				return entities.Entitlement{}, false, lookupErr
			}
			return existing, false, nil
		}
		return entities.Entitlement{}, false, r.logError("ledger_repo_create_entitlement_failed", err,
			"contributor", entitlement.ContributorHandle,
			"period", entitlement.Period,
			"category", string(entitlement.Category),
		)
	}
	return entitlement, true, nil
}

func (r *Repository) getEntitlementBySource(ctx context.Context, source entities.SourceRef, category entities.Category) (entities.Entitlement, error) {
	var row entitlementModel
	err := r.db.WithContext(ctx).
		Where("source_table = ?", source.Table).
		Where("source_id = ?", source.ID).
		Where("category = ?", string(category)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Entitlement{}, domainerrors.ErrDuplicateEntitlement
		}
		return entities.Entitlement{}, r.logError("ledger_repo_get_entitlement_failed", err,
			"source_table", source.Table,
			"source_id", source.ID,
		)
	}
	return row.toEntity()
}

func (r *Repository) SumEarnings(ctx context.Context, contributorHandle string, period string) ([]entities.EarningsSummary, error) {
	type earningsRow struct {
		Period   string
		Category string
		Total    int64
	}

	query := r.db.WithContext(ctx).
		Model(&entitlementModel{}).
		Select("period, category, SUM(amount) AS total").
		Where("contributor_handle = ?", strings.TrimSpace(contributorHandle))
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var rows []earningsRow
	if err := query.
		Group("period, category").
		Order("period DESC, category ASC").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_sum_earnings_failed", err,
			"contributor", strings.TrimSpace(contributorHandle),
		)
	}

	summaries := make([]entities.EarningsSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, entities.EarningsSummary{
			Period:   row.Period,
			Category: entities.Category(row.Category),
			Total:    row.Total,
		})
	}
	return summaries, nil
}

func (r *Repository) CreateSession(ctx context.Context, session entities.SupportSession) error {
	row, err := sessionModelFromEntity(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_create_session_failed", err,
			"session_id", session.ID,
		)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.SupportSession, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SupportSession{}, domainerrors.ErrSessionNotFound
		}
		return entities.SupportSession{}, r.logError("ledger_repo_get_session_failed", err,
			"session_id", strings.TrimSpace(sessionID),
		)
	}
	return row.toEntity()
}

func (r *Repository) UpdateSession(ctx context.Context, session entities.SupportSession) error {
	evidence, err := marshalMeta(session.Evidence)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"status":      string(session.Status),
			"ended_at":    session.EndedAt,
			"minutes":     session.Minutes,
			"approved_by": session.ApprovedBy,
			"approved_at": session.ApprovedAt,
			"evidence":    evidence,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_update_session_failed", result.Error,
			"session_id", session.ID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "earnings-core/entitlement-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("entitlement ledger repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func marshalMeta(meta map[string]string) ([]byte, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	return json.Marshal(meta)
}

func unmarshalMeta(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	meta := make(map[string]string)
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

type saleModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	TransactionID string    `gorm:"column:transaction_id;uniqueIndex"`
	Period        string    `gorm:"column:period;index"`
	Amount        int64     `gorm:"column:amount"`
	FeeAmount     int64     `gorm:"column:fee_amount"`
	Currency      string    `gorm:"column:currency"`
	BuyerRef      string    `gorm:"column:buyer_ref"`
	SellerHandle  string    `gorm:"column:seller_handle"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (saleModel) TableName() string {
	return "sales"
}

func saleModelFromEntity(sale entities.SaleEvent) saleModel {
	return saleModel{
		ID:            sale.ID,
		TransactionID: sale.TransactionID,
		Period:        sale.Period,
		Amount:        sale.Amount,
		FeeAmount:     sale.FeeAmount,
		Currency:      sale.Currency,
		BuyerRef:      sale.BuyerRef,
		SellerHandle:  sale.SellerHandle,
		OccurredAt:    sale.OccurredAt,
		CreatedAt:     sale.CreatedAt,
	}
}

func (m saleModel) toEntity() entities.SaleEvent {
	return entities.SaleEvent{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Period:        m.Period,
		Amount:        m.Amount,
		FeeAmount:     m.FeeAmount,
		Currency:      m.Currency,
		BuyerRef:      m.BuyerRef,
		SellerHandle:  m.SellerHandle,
		OccurredAt:    m.OccurredAt,
		CreatedAt:     m.CreatedAt,
	}
}

type entitlementModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	ContributorHandle string    `gorm:"column:contributor_handle;index"`
	Period            string    `gorm:"column:period;index"`
	Category          string    `gorm:"column:category;uniqueIndex:idx_entitlements_source"`
	Amount            int64     `gorm:"column:amount"`
	SourceTable       string    `gorm:"column:source_table;uniqueIndex:idx_entitlements_source"`
	SourceID          string    `gorm:"column:source_id;uniqueIndex:idx_entitlements_source"`
	Metadata          []byte    `gorm:"column:metadata;type:jsonb"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (entitlementModel) TableName() string {
	return "entitlements"
}

func entitlementModelFromEntity(entitlement entities.Entitlement) (entitlementModel, error) {
	meta, err := marshalMeta(entitlement.Metadata)
	if err != nil {
		return entitlementModel{}, err
	}
	return entitlementModel{
		ID:                entitlement.ID,
		ContributorHandle: entitlement.ContributorHandle,
		Period:            entitlement.Period,
		Category:          string(entitlement.Category),
		Amount:            entitlement.Amount,
		SourceTable:       entitlement.Source.Table,
		SourceID:          entitlement.Source.ID,
		Metadata:          meta,
		CreatedAt:         entitlement.CreatedAt,
	}, nil
}

func (m entitlementModel) toEntity() (entities.Entitlement, error) {
	meta, err := unmarshalMeta(m.Metadata)
	if err != nil {
		return entities.Entitlement{}, err
	}
	return entities.Entitlement{
		ID:                m.ID,
		ContributorHandle: m.ContributorHandle,
		Period:            m.Period,
		Category:          entities.Category(m.Category),
		Amount:            m.Amount,
		Source:            entities.SourceRef{Table: m.SourceTable, ID: m.SourceID},
		Metadata:          meta,
		CreatedAt:         m.CreatedAt,
	}, nil
}

type sessionModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	ContributorHandle string     `gorm:"column:contributor_handle;index"`
	TicketID          string     `gorm:"column:ticket_id"`
	Channel           string     `gorm:"column:channel"`
	Status            string     `gorm:"column:status"`
	StartedAt         time.Time  `gorm:"column:started_at"`
	EndedAt           *time.Time `gorm:"column:ended_at"`
	Minutes           int64      `gorm:"column:minutes"`
	ApprovedBy        string     `gorm:"column:approved_by"`
	ApprovedAt        *time.Time `gorm:"column:approved_at"`
	Evidence          []byte     `gorm:"column:evidence;type:jsonb"`
}

func (sessionModel) TableName() string {
	return "support_sessions"
}

func sessionModelFromEntity(session entities.SupportSession) (sessionModel, error) {
	evidence, err := marshalMeta(session.Evidence)
	if err != nil {
		return sessionModel{}, err
	}
	return sessionModel{
		ID:                session.ID,
		ContributorHandle: session.ContributorHandle,
		TicketID:          session.TicketID,
		Channel:           session.Channel,
		Status:            string(session.Status),
		StartedAt:         session.StartedAt,
		EndedAt:           session.EndedAt,
		Minutes:           session.Minutes,
		ApprovedBy:        session.ApprovedBy,
		ApprovedAt:        session.ApprovedAt,
		Evidence:          evidence,
	}, nil
}

func (m sessionModel) toEntity() (entities.SupportSession, error) {
	evidence, err := unmarshalMeta(m.Evidence)
	if err != nil {
		return entities.SupportSession{}, err
	}
	return entities.SupportSession{
		ID:                m.ID,
		ContributorHandle: m.ContributorHandle,
		TicketID:          m.TicketID,
		Channel:           m.Channel,
		Status:            entities.SessionStatus(m.Status),
		StartedAt:         m.StartedAt,
		EndedAt:           m.EndedAt,
		Minutes:           m.Minutes,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		Evidence:          evidence,
	}, nil
}
