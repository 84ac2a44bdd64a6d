package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"revshare/contexts/earnings-core/entitlement-ledger/application"
	domainerrors "revshare/contexts/earnings-core/entitlement-ledger/domain/errors"
	httptransport "revshare/contexts/earnings-core/entitlement-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) IngestSaleHandler(ctx context.Context, req httptransport.IngestSaleRequest) (httptransport.IngestSaleResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	var occurredAt time.Time
	if strings.TrimSpace(req.OccurredAt) != "" {
		parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			return httptransport.IngestSaleResponse{}, domainerrors.ErrInvalidSaleInput
		}
		occurredAt = parsed
	}

	sale, created, err := h.Service.IngestSale(ctx, application.IngestSaleCommand{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		FeeAmount:     req.FeeAmount,
		Currency:      req.Currency,
		BuyerRef:      req.BuyerRef,
		SellerHandle:  req.SellerHandle,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		logger.Warn("ledger http ingest sale failed",
			"event", "ledger_http_ingest_sale_failed",
			"module", "earnings-core/entitlement-ledger",
			"layer", "adapter",
			"transaction_id", strings.TrimSpace(req.TransactionID),
			"error", err.Error(),
		)
		return httptransport.IngestSaleResponse{}, err
	}
	return httptransport.IngestSaleResponse{
		SaleID:        sale.ID,
		TransactionID: sale.TransactionID,
		Period:        sale.Period,
		Created:       created,
	}, nil
}

func (h Handler) StartSessionHandler(ctx context.Context, req httptransport.StartSessionRequest) (httptransport.StartSessionResponse, error) {
	session, err := h.Service.StartSession(ctx, application.StartSessionCommand{
		ContributorHandle: req.ContributorHandle,
		TicketID:          req.TicketID,
		Channel:           req.Channel,
	})
	if err != nil {
		return httptransport.StartSessionResponse{}, err
	}
	return httptransport.StartSessionResponse{
		SessionID: session.ID,
		StartedAt: session.StartedAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) CloseSessionHandler(ctx context.Context, sessionID string, req httptransport.CloseSessionRequest) (httptransport.CloseSessionResponse, error) {
	session, err := h.Service.CloseSession(ctx, application.CloseSessionCommand{
		SessionID: sessionID,
		Evidence:  req.Evidence,
	})
	if err != nil {
		return httptransport.CloseSessionResponse{}, err
	}
	resp := httptransport.CloseSessionResponse{
		SessionID: session.ID,
		Minutes:   session.Minutes,
	}
	if session.EndedAt != nil {
		resp.EndedAt = session.EndedAt.Format(time.RFC3339)
	}
	return resp, nil
}

func (h Handler) ApproveSessionHandler(ctx context.Context, sessionID string, approvedBy string) (httptransport.ApproveSessionResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	entitlement, err := h.Service.ApproveSession(ctx, application.ApproveSessionCommand{
		SessionID:  sessionID,
		ApprovedBy: approvedBy,
	})
	if err != nil {
		logger.Warn("ledger http approve session failed",
			"event", "ledger_http_approve_session_failed",
			"module", "earnings-core/entitlement-ledger",
			"layer", "adapter",
			"session_id", strings.TrimSpace(sessionID),
			"error", err.Error(),
		)
		return httptransport.ApproveSessionResponse{}, err
	}
	return httptransport.ApproveSessionResponse{
		SessionID: strings.TrimSpace(sessionID),
		Period:    entitlement.Period,
		Amount:    entitlement.Amount,
	}, nil
}

func (h Handler) EarningsHandler(ctx context.Context, handle string, optionalPeriod string) (httptransport.EarningsResponse, error) {
	summaries, err := h.Service.EarningsByContributor(ctx, handle, optionalPeriod)
	if err != nil {
		return httptransport.EarningsResponse{}, err
	}
	rows := make([]httptransport.EarningsRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, httptransport.EarningsRow{
			Period:   summary.Period,
			Category: string(summary.Category),
			Total:    summary.Total,
		})
	}
	return httptransport.EarningsResponse{
		ContributorHandle: strings.TrimSpace(handle),
		Rows:              rows,
	}, nil
}
