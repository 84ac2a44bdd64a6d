package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"revshare/contexts/finance-core/revenue-ledger/application"
	httptransport "revshare/contexts/finance-core/revenue-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RecordRevenueHandler(ctx context.Context, req httptransport.RecordRevenueRequest) (httptransport.RecordRevenueResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	record, err := h.Service.Record(ctx, req.Period, req.Amount)
	if err != nil {
		logger.Warn("revenue http record failed",
			"event", "revenue_http_record_failed",
			"module", "finance-core/revenue-ledger",
			"layer", "adapter",
			"period", req.Period,
			"error", err.Error(),
		)
		return httptransport.RecordRevenueResponse{}, err
	}
	return httptransport.RecordRevenueResponse{
		RecordID:   record.ID,
		Period:     record.Period,
		Amount:     record.Amount,
		RecordedAt: record.RecordedAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) LatestPeriodHandler(ctx context.Context) (httptransport.LatestPeriodResponse, error) {
	latest, err := h.Service.LatestPeriod(ctx)
	if err != nil {
		return httptransport.LatestPeriodResponse{}, err
	}
	return httptransport.LatestPeriodResponse{Period: latest}, nil
}
