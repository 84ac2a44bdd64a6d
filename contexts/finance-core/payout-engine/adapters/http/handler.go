package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"revshare/contexts/finance-core/payout-engine/application"
	"revshare/contexts/finance-core/payout-engine/domain/entities"
	httptransport "revshare/contexts/finance-core/payout-engine/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// AllocateHandler previews the split without issuing transfers.
func (h Handler) AllocateHandler(ctx context.Context, req httptransport.DistributeRequest) (httptransport.AllocationResponse, error) {
	allocation, err := h.Service.Allocate(ctx, req.Period, req.PoolPercent)
	if err != nil {
		return httptransport.AllocationResponse{}, err
	}
	shares := make([]httptransport.ShareView, 0, len(allocation.Shares))
	for _, share := range allocation.Shares {
		shares = append(shares, httptransport.ShareView{
			Contributor:      share.ContributorHandle,
			EntitlementTotal: share.EntitlementTotal,
			Amount:           share.Amount,
		})
	}
	return httptransport.AllocationResponse{
		Period:           allocation.Period,
		RevenueTotal:     allocation.RevenueTotal,
		PoolPercent:      allocation.PoolPercent,
		PoolAmount:       allocation.PoolAmount,
		EntitlementTotal: allocation.EntitlementTotal,
		Shares:           shares,
	}, nil
}

func (h Handler) DistributeHandler(ctx context.Context, req httptransport.DistributeRequest) (httptransport.DistributeResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.Service.Distribute(ctx, req.Period, req.PoolPercent)
	if err != nil {
		logger.Warn("payout http distribute failed",
			"event", "payout_http_distribute_failed",
			"module", "finance-core/payout-engine",
			"layer", "adapter",
			"period", req.Period,
			"error", err.Error(),
		)
		return httptransport.DistributeResponse{}, err
	}
	return distributeResponse(result), nil
}

func (h Handler) ListPayoutsHandler(ctx context.Context, period string) (httptransport.ListPayoutsResponse, error) {
	payouts, err := h.Service.ListPayouts(ctx, period)
	if err != nil {
		return httptransport.ListPayoutsResponse{}, err
	}
	views := make([]httptransport.PayoutView, 0, len(payouts))
	for _, payout := range payouts {
		views = append(views, httptransport.PayoutView{
			PayoutID:    payout.ID,
			Contributor: payout.ContributorHandle,
			Period:      payout.Period,
			Amount:      payout.Amount,
			TransferID:  payout.TransferID,
			CreatedAt:   payout.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListPayoutsResponse{Payouts: views}, nil
}

func distributeResponse(result entities.RunResult) httptransport.DistributeResponse {
	outcomes := make([]httptransport.OutcomeView, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		outcomes = append(outcomes, httptransport.OutcomeView{
			Contributor: outcome.ContributorHandle,
			Amount:      outcome.Amount,
			Status:      string(outcome.Status),
			TransferID:  outcome.TransferID,
			Reason:      outcome.Reason,
		})
	}
	return httptransport.DistributeResponse{
		Period:           result.Period,
		RevenueTotal:     result.RevenueTotal,
		PoolAmount:       result.PoolAmount,
		EntitlementTotal: result.EntitlementTotal,
		Outcomes:         outcomes,
	}
}
