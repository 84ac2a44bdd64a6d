package ports

import (
	"context"
	"time"

	"revshare/contexts/identity-access/contributor-registry/domain/entities"
)

type Repository interface {
	CreateContributor(ctx context.Context, contributor entities.Contributor) error
	GetByHandle(ctx context.Context, handle string) (entities.Contributor, error)
	UpdateContributor(ctx context.Context, contributor entities.Contributor) error
	ListContributors(ctx context.Context) ([]entities.Contributor, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
