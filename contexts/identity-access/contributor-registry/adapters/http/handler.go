package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"revshare/contexts/identity-access/contributor-registry/application"
	"revshare/contexts/identity-access/contributor-registry/domain/entities"
	httptransport "revshare/contexts/identity-access/contributor-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterContributorRequest) (httptransport.ContributorDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	contributor, err := h.Service.Register(ctx, application.RegisterCommand{
		Handle:     req.Handle,
		ExternalID: req.ExternalID,
		Role:       req.Role,
	})
	if err != nil {
		logger.Warn("contributor http register failed",
			"event", "contributor_http_register_failed",
			"module", "identity-access/contributor-registry",
			"layer", "adapter",
			"handle", strings.TrimSpace(req.Handle),
			"error", err.Error(),
		)
		return httptransport.ContributorDTO{}, err
	}
	return toDTO(contributor), nil
}

func (h Handler) LinkDestinationHandler(ctx context.Context, handle string, req httptransport.LinkDestinationRequest) (httptransport.ContributorDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	contributor, err := h.Service.LinkPayoutDestination(ctx, handle, req.Destination)
	if err != nil {
		logger.Warn("contributor http link destination failed",
			"event", "contributor_http_link_destination_failed",
			"module", "identity-access/contributor-registry",
			"layer", "adapter",
			"handle", strings.TrimSpace(handle),
			"error", err.Error(),
		)
		return httptransport.ContributorDTO{}, err
	}
	return toDTO(contributor), nil
}

func (h Handler) SupportOptHandler(ctx context.Context, handle string, req httptransport.SupportOptRequest) (httptransport.ContributorDTO, error) {
	contributor, err := h.Service.SetSupportOptIn(ctx, handle, req.SupportOptIn)
	if err != nil {
		return httptransport.ContributorDTO{}, err
	}
	return toDTO(contributor), nil
}

func (h Handler) ListHandler(ctx context.Context) ([]httptransport.ContributorDTO, error) {
	contributors, err := h.Service.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]httptransport.ContributorDTO, 0, len(contributors))
	for _, contributor := range contributors {
		dtos = append(dtos, toDTO(contributor))
	}
	return dtos, nil
}

func toDTO(contributor entities.Contributor) httptransport.ContributorDTO {
	dto := httptransport.ContributorDTO{
		Handle:            contributor.Handle,
		ExternalID:        contributor.ExternalID,
		Role:              contributor.Role,
		PayoutDestination: contributor.PayoutDestination,
		SupportOptIn:      contributor.SupportOptIn,
	}
	if contributor.DestinationLinkedAt != nil {
		dto.DestinationLinkedAt = contributor.DestinationLinkedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
