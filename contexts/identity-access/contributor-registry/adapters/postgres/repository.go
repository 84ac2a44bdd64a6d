package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"revshare/contexts/identity-access/contributor-registry/domain/entities"
	domainerrors "revshare/contexts/identity-access/contributor-registry/domain/errors"

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

func (r *Repository) CreateContributor(ctx context.Context, contributor entities.Contributor) error {
	if strings.TrimSpace(contributor.Handle) == "" {
		return domainerrors.ErrInvalidHandle
	}
	row := contributorModelFromEntity(contributor)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrContributorExists
		}
		return r.logError("contributor_repo_create_failed", err,
			"handle", contributor.Handle,
		)
	}
	return nil
}

func (r *Repository) GetByHandle(ctx context.Context, handle string) (entities.Contributor, error) {
	var row contributorModel
	err := r.db.WithContext(ctx).
		Where("handle = ?", strings.TrimSpace(handle)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contributor{}, domainerrors.ErrContributorNotFound
		}
		return entities.Contributor{}, r.logError("contributor_repo_get_failed", err,
			"handle", strings.TrimSpace(handle),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateContributor(ctx context.Context, contributor entities.Contributor) error {
	result := r.db.WithContext(ctx).
		Model(&contributorModel{}).
		Where("handle = ?", strings.TrimSpace(contributor.Handle)).
		Updates(map[string]any{
			"external_id":           contributor.ExternalID,
			"role":                  contributor.Role,
			"payout_destination":    contributor.PayoutDestination,
			"destination_linked_at": contributor.DestinationLinkedAt,
			"support_opt_in":        contributor.SupportOptIn,
			"updated_at":            contributor.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("contributor_repo_update_failed", result.Error,
			"handle", contributor.Handle,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContributorNotFound
	}
	return nil
}

func (r *Repository) ListContributors(ctx context.Context) ([]entities.Contributor, error) {
	var rows []contributorModel
	if err := r.db.WithContext(ctx).
		Order("handle ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("contributor_repo_list_failed", err)
	}
	contributors := make([]entities.Contributor, 0, len(rows))
	for _, row := range rows {
		contributors = append(contributors, row.toEntity())
	}
	return contributors, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/contributor-registry",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("contributor repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type contributorModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	Handle              string     `gorm:"column:handle;uniqueIndex"`
	ExternalID          string     `gorm:"column:external_id"`
	Role                string     `gorm:"column:role"`
	PayoutDestination   string     `gorm:"column:payout_destination"`
	DestinationLinkedAt *time.Time `gorm:"column:destination_linked_at"`
	SupportOptIn        bool       `gorm:"column:support_opt_in"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (contributorModel) TableName() string {
	return "contributors"
}

func contributorModelFromEntity(contributor entities.Contributor) contributorModel {
	return contributorModel{
		ID:                  contributor.ID,
		Handle:              strings.TrimSpace(contributor.Handle),
		ExternalID:          contributor.ExternalID,
		Role:                contributor.Role,
		PayoutDestination:   contributor.PayoutDestination,
		DestinationLinkedAt: contributor.DestinationLinkedAt,
		SupportOptIn:        contributor.SupportOptIn,
		CreatedAt:           contributor.CreatedAt,
		UpdatedAt:           contributor.UpdatedAt,
	}
}

func (m contributorModel) toEntity() entities.Contributor {
	return entities.Contributor{
		ID:                  m.ID,
		Handle:              m.Handle,
		ExternalID:          m.ExternalID,
		Role:                m.Role,
		PayoutDestination:   m.PayoutDestination,
		DestinationLinkedAt: m.DestinationLinkedAt,
		SupportOptIn:        m.SupportOptIn,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
