package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"revshare/contexts/identity-access/contributor-registry/domain/entities"
	domainerrors "revshare/contexts/identity-access/contributor-registry/domain/errors"
	"revshare/contexts/identity-access/contributor-registry/ports"
)

type RegisterCommand struct {
	Handle     string
	ExternalID string
	Role       string
}

type Service struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Register creates the contributor if missing. Registration is an upsert on
// handle: replays and webhook retries are absorbed without error.
func (s Service) Register(ctx context.Context, cmd RegisterCommand) (entities.Contributor, error) {
	logger := ResolveLogger(s.Logger)
	handle := strings.TrimSpace(cmd.Handle)
	if handle == "" {
		return entities.Contributor{}, domainerrors.ErrInvalidHandle
	}

	existing, err := s.Repository.GetByHandle(ctx, handle)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrContributorNotFound) {
		return entities.Contributor{}, err
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Contributor{}, err
	}
	now := s.Clock.Now().UTC()
	role := strings.TrimSpace(cmd.Role)
	if role == "" {
		role = entities.DefaultRole
	}
	contributor := entities.Contributor{
		ID:         id,
		Handle:     handle,
		ExternalID: strings.TrimSpace(cmd.ExternalID),
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repository.CreateContributor(ctx, contributor); err != nil {
		if errors.Is(err, domainerrors.ErrContributorExists) {
			return s.Repository.GetByHandle(ctx, handle)
		}
		return entities.Contributor{}, err
	}
	logger.Info("contributor registered",
		"event", "contributor_registered",
		"module", "identity-access/contributor-registry",
		"layer", "application",
		"handle", handle,
	)
	return contributor, nil
}

// Ensure registers a contributor row on first earning event.
func (s Service) Ensure(ctx context.Context, handle string) error {
	_, err := s.Register(ctx, RegisterCommand{Handle: handle})
	return err
}

// LinkPayoutDestination stores the payout account resolved by the external
// authorization exchange. Linking again overwrites the previous destination.
func (s Service) LinkPayoutDestination(ctx context.Context, handle string, destination string) (entities.Contributor, error) {
	logger := ResolveLogger(s.Logger)
	if strings.TrimSpace(destination) == "" {
		return entities.Contributor{}, domainerrors.ErrInvalidDestination
	}

	contributor, err := s.Register(ctx, RegisterCommand{Handle: handle})
	if err != nil {
		return entities.Contributor{}, err
	}

	now := s.Clock.Now().UTC()
	contributor.PayoutDestination = strings.TrimSpace(destination)
	contributor.DestinationLinkedAt = &now
	contributor.UpdatedAt = now
	if err := s.Repository.UpdateContributor(ctx, contributor); err != nil {
		return entities.Contributor{}, err
	}
	logger.Info("contributor payout destination linked",
		"event", "contributor_destination_linked",
		"module", "identity-access/contributor-registry",
		"layer", "application",
		"handle", contributor.Handle,
	)
	return contributor, nil
}

func (s Service) SetSupportOptIn(ctx context.Context, handle string, optIn bool) (entities.Contributor, error) {
	contributor, err := s.Register(ctx, RegisterCommand{Handle: handle})
	if err != nil {
		return entities.Contributor{}, err
	}
	contributor.SupportOptIn = optIn
	contributor.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Repository.UpdateContributor(ctx, contributor); err != nil {
		return entities.Contributor{}, err
	}
	return contributor, nil
}

func (s Service) Get(ctx context.Context, handle string) (entities.Contributor, error) {
	trimmed := strings.TrimSpace(handle)
	if trimmed == "" {
		return entities.Contributor{}, domainerrors.ErrInvalidHandle
	}
	return s.Repository.GetByHandle(ctx, trimmed)
}

// List returns all contributors ordered by handle ascending.
func (s Service) List(ctx context.Context) ([]entities.Contributor, error) {
	contributors, err := s.Repository.ListContributors(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].Handle < contributors[j].Handle
	})
	return contributors, nil
}
