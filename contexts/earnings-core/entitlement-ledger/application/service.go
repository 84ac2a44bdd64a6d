package application

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"revshare/contexts/earnings-core/entitlement-ledger/domain/entities"
	domainerrors "revshare/contexts/earnings-core/entitlement-ledger/domain/errors"
	"revshare/contexts/earnings-core/entitlement-ledger/ports"
	"revshare/internal/platform/metrics"
	"revshare/internal/shared/events"
	"revshare/internal/shared/period"
)

const (
	defaultCommissionPercent    = 30
	defaultSupportRatePerMinute = 50

	TopicSaleRecorded    = "earnings.sale_recorded"
	TopicSessionApproved = "earnings.session_approved"
)

const (
	sourceTableSales    = "sales"
	sourceTableSessions = "support_sessions"
)

// Settings are the normalization rates threaded in at construction.
type Settings struct {
	CommissionPercent    int64
	SupportRatePerMinute int64
}

type IngestSaleCommand struct {
	TransactionID string
	Amount        int64
	FeeAmount     int64
	Currency      string
	BuyerRef      string
	SellerHandle  string
	OccurredAt    time.Time
}

type StartSessionCommand struct {
	ContributorHandle string
	TicketID          string
	Channel           string
}

type CloseSessionCommand struct {
	SessionID string
	Evidence  map[string]string
}

type ApproveSessionCommand struct {
	SessionID  string
	ApprovedBy string
}

type RecordEntitlementCommand struct {
	ContributorHandle string
	Period            string
	Category          entities.Category
	Amount            int64
	Source            entities.SourceRef
	Metadata          map[string]string
}

type Service struct {
	Repository   ports.Repository
	Contributors ports.ContributorDirectory
	Publisher    ports.Publisher
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Settings     Settings
	Logger       *slog.Logger
}

// IngestSale records a completed sale and, when the seller resolves,
// normalizes a sale_commission entitlement. Replaying the same transaction
// id returns the stored sale and writes nothing new; normalization runs on
// replays too so an interrupted first attempt heals.
func (s Service) IngestSale(ctx context.Context, cmd IngestSaleCommand) (entities.SaleEvent, bool, error) {
	logger := ResolveLogger(s.Logger)
	transactionID := strings.TrimSpace(cmd.TransactionID)
	if transactionID == "" || cmd.Amount <= 0 || cmd.FeeAmount < 0 || cmd.FeeAmount > cmd.Amount {
		return entities.SaleEvent{}, false, domainerrors.ErrInvalidSaleInput
	}

	now := s.Clock.Now().UTC()
	occurredAt := cmd.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = now
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.SaleEvent{}, false, err
	}
	currency := strings.ToLower(strings.TrimSpace(cmd.Currency))
	if currency == "" {
		currency = "usd"
	}
	candidate := entities.SaleEvent{
		ID:            id,
		TransactionID: transactionID,
		Period:        period.FromTime(occurredAt),
		Amount:        cmd.Amount,
		FeeAmount:     cmd.FeeAmount,
		Currency:      currency,
		BuyerRef:      strings.TrimSpace(cmd.BuyerRef),
		SellerHandle:  strings.TrimSpace(cmd.SellerHandle),
		OccurredAt:    occurredAt,
		CreatedAt:     now,
	}

	sale, created, err := s.Repository.CreateSale(ctx, candidate)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrSaleNotFound) {
			return entities.SaleEvent{}, false, err
		}
		// Unique violation raced ahead of row visibility; retry the lookup.
		sale, err = s.Repository.GetSaleByTransaction(ctx, transactionID)
		if err != nil {
			return entities.SaleEvent{}, false, err
		}
		created = false
	}

	if created {
		metrics.SalesIngested.WithLabelValues("created").Inc()
		logger.Info("sale recorded",
			"event", "sale_recorded",
			"module", "earnings-core/entitlement-ledger",
			"layer", "application",
			"transaction_id", transactionID,
			"period", sale.Period,
			"amount", sale.Amount,
		)
		s.publish(ctx, TopicSaleRecorded, "sale", sale.ID, map[string]any{
			"transaction_id": sale.TransactionID,
			"period":         sale.Period,
			"amount":         sale.Amount,
			"fee_amount":     sale.FeeAmount,
			"seller_handle":  sale.SellerHandle,
		})
	} else {
		metrics.SalesIngested.WithLabelValues("replayed").Inc()
	}

	if err := s.normalizeSaleCommission(ctx, sale); err != nil {
		return entities.SaleEvent{}, false, err
	}
	return sale, created, nil
}

// normalizeSaleCommission writes the commission entitlement for a sale.
// An unresolvable seller skips creation silently; the sale still counts
// toward revenue.
func (s Service) normalizeSaleCommission(ctx context.Context, sale entities.SaleEvent) error {
	logger := ResolveLogger(s.Logger)
	seller := strings.TrimSpace(sale.SellerHandle)
	if seller == "" {
		logger.Debug("sale has no resolvable seller, skipping entitlement",
			"event", "sale_seller_unresolved",
			"module", "earnings-core/entitlement-ledger",
			"layer", "application",
			"transaction_id", sale.TransactionID,
		)
		return nil
	}

	commission := Commission(sale.FeeAmount, s.commissionPercent())
	if commission <= 0 {
		return nil
	}

	if err := s.Contributors.Ensure(ctx, seller); err != nil {
		return err
	}

	_, _, err := s.record(ctx, RecordEntitlementCommand{
		ContributorHandle: seller,
		Period:            sale.Period,
		Category:          entities.CategorySaleCommission,
		Amount:            commission,
		Source:            entities.SourceRef{Table: sourceTableSales, ID: sale.ID},
		Metadata: map[string]string{
			"transaction_id": sale.TransactionID,
			"fee_amount":     strconv.FormatInt(sale.FeeAmount, 10),
		},
	})
	return err
}

// Commission is the sale commission in minor units: the fee share at the
// given percent, floored, and never more than the fee itself.
func Commission(feeAmount int64, commissionPercent int64) int64 {
	if feeAmount <= 0 || commissionPercent <= 0 {
		return 0
	}
	commission := feeAmount * commissionPercent / 100
	if commission > feeAmount {
		return feeAmount
	}
	return commission
}

func (s Service) StartSession(ctx context.Context, cmd StartSessionCommand) (entities.SupportSession, error) {
	handle := strings.TrimSpace(cmd.ContributorHandle)
	if handle == "" {
		return entities.SupportSession{}, domainerrors.ErrInvalidSessionInput
	}
	if err := s.Contributors.Ensure(ctx, handle); err != nil {
		return entities.SupportSession{}, err
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.SupportSession{}, err
	}
	channel := strings.TrimSpace(cmd.Channel)
	if channel == "" {
		channel = "github"
	}
	session := entities.SupportSession{
		ID:                id,
		ContributorHandle: handle,
		TicketID:          strings.TrimSpace(cmd.TicketID),
		Channel:           channel,
		Status:            entities.SessionStatusOpen,
		StartedAt:         s.Clock.Now().UTC(),
	}
	if err := s.Repository.CreateSession(ctx, session); err != nil {
		return entities.SupportSession{}, err
	}
	return session, nil
}

func (s Service) CloseSession(ctx context.Context, cmd CloseSessionCommand) (entities.SupportSession, error) {
	session, err := s.Repository.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return entities.SupportSession{}, err
	}
	if session.Status != entities.SessionStatusOpen {
		return entities.SupportSession{}, domainerrors.ErrSessionAlreadyClosed
	}

	now := s.Clock.Now().UTC()
	minutes := int64(now.Sub(session.StartedAt).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	session.EndedAt = &now
	session.Minutes = minutes
	session.Status = entities.SessionStatusClosed
	if len(cmd.Evidence) > 0 {
		session.Evidence = cmd.Evidence
	}
	if err := s.Repository.UpdateSession(ctx, session); err != nil {
		return entities.SupportSession{}, err
	}
	return session, nil
}

// ApproveSession converts a closed session into exactly one support
// entitlement and freezes the session. The entitlement's unique source
// constraint guards against a second entitlement even if approval races.
func (s Service) ApproveSession(ctx context.Context, cmd ApproveSessionCommand) (entities.Entitlement, error) {
	logger := ResolveLogger(s.Logger)
	session, err := s.Repository.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return entities.Entitlement{}, err
	}
	switch session.Status {
	case entities.SessionStatusApproved:
		return entities.Entitlement{}, domainerrors.ErrSessionAlreadyApproved
	case entities.SessionStatusOpen:
		return entities.Entitlement{}, domainerrors.ErrSessionNotClosed
	}

	sessionEnd := session.StartedAt
	if session.EndedAt != nil {
		sessionEnd = *session.EndedAt
	}
	amount := session.Minutes * s.supportRate()

	entitlement, created, err := s.record(ctx, RecordEntitlementCommand{
		ContributorHandle: session.ContributorHandle,
		Period:            period.FromTime(sessionEnd),
		Category:          entities.CategorySupport,
		Amount:            amount,
		Source:            entities.SourceRef{Table: sourceTableSessions, ID: session.ID},
		Metadata: map[string]string{
			"minutes":   strconv.FormatInt(session.Minutes, 10),
			"ticket_id": session.TicketID,
		},
	})
	if err != nil {
		return entities.Entitlement{}, err
	}
	if !created {
		logger.Warn("support entitlement already recorded for session",
			"event", "session_entitlement_replayed",
			"module", "earnings-core/entitlement-ledger",
			"layer", "application",
			"session_id", session.ID,
		)
	}

	now := s.Clock.Now().UTC()
	session.Status = entities.SessionStatusApproved
	session.ApprovedBy = strings.TrimSpace(cmd.ApprovedBy)
	session.ApprovedAt = &now
	if err := s.Repository.UpdateSession(ctx, session); err != nil {
		return entities.Entitlement{}, err
	}

	logger.Info("support session approved",
		"event", "session_approved",
		"module", "earnings-core/entitlement-ledger",
		"layer", "application",
		"session_id", session.ID,
		"contributor", session.ContributorHandle,
		"minutes", session.Minutes,
		"amount", amount,
	)
	s.publish(ctx, TopicSessionApproved, "support_session", session.ID, map[string]any{
		"contributor": session.ContributorHandle,
		"period":      entitlement.Period,
		"minutes":     session.Minutes,
		"amount":      amount,
	})
	return entitlement, nil
}

// RecordEntitlement is the tagged ledger insert: created=false means the
// source reference was already recorded, which callers absorb rather than
// surface.
func (s Service) RecordEntitlement(ctx context.Context, cmd RecordEntitlementCommand) (entities.Entitlement, bool, error) {
	handle := strings.TrimSpace(cmd.ContributorHandle)
	if handle == "" {
		return entities.Entitlement{}, false, domainerrors.ErrInvalidSessionInput
	}
	if err := s.Contributors.Ensure(ctx, handle); err != nil {
		return entities.Entitlement{}, false, err
	}
	cmd.ContributorHandle = handle
	return s.record(ctx, cmd)
}

func (s Service) record(ctx context.Context, cmd RecordEntitlementCommand) (entities.Entitlement, bool, error) {
	logger := ResolveLogger(s.Logger)
	if err := period.Validate(cmd.Period); err != nil {
		return entities.Entitlement{}, false, domainerrors.ErrInvalidPeriod
	}
	if cmd.Amount <= 0 {
		return entities.Entitlement{}, false, domainerrors.ErrInvalidAmount
	}
	switch cmd.Category {
	case entities.CategorySaleCommission, entities.CategorySupport:
	default:
		return entities.Entitlement{}, false, domainerrors.ErrInvalidCategory
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Entitlement{}, false, err
	}
	entitlement, created, err := s.Repository.CreateEntitlement(ctx, entities.Entitlement{
		ID:                id,
		ContributorHandle: cmd.ContributorHandle,
		Period:            cmd.Period,
		Category:          cmd.Category,
		Amount:            cmd.Amount,
		Source:            cmd.Source,
		Metadata:          cmd.Metadata,
		CreatedAt:         s.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Entitlement{}, false, err
	}
	if created {
		metrics.EntitlementsRecorded.WithLabelValues(string(cmd.Category)).Inc()
		logger.Info("entitlement recorded",
			"event", "entitlement_recorded",
			"module", "earnings-core/entitlement-ledger",
			"layer", "application",
			"contributor", cmd.ContributorHandle,
			"period", cmd.Period,
			"category", string(cmd.Category),
			"amount", cmd.Amount,
			"source_table", cmd.Source.Table,
			"source_id", cmd.Source.ID,
		)
	}
	return entitlement, created, nil
}

// EarningsByContributor returns (period, category, total) rows grouped and
// ordered period descending then category ascending.
func (s Service) EarningsByContributor(ctx context.Context, handle string, optionalPeriod string) ([]entities.EarningsSummary, error) {
	trimmed := strings.TrimSpace(handle)
	if trimmed == "" {
		return nil, domainerrors.ErrInvalidSessionInput
	}
	if optionalPeriod != "" {
		if err := period.Validate(optionalPeriod); err != nil {
			return nil, domainerrors.ErrInvalidPeriod
		}
	}
	return s.Repository.SumEarnings(ctx, trimmed, optionalPeriod)
}

func (s Service) commissionPercent() int64 {
	if s.Settings.CommissionPercent <= 0 {
		return defaultCommissionPercent
	}
	return s.Settings.CommissionPercent
}

func (s Service) supportRate() int64 {
	if s.Settings.SupportRatePerMinute <= 0 {
		return defaultSupportRatePerMinute
	}
	return s.Settings.SupportRatePerMinute
}

func (s Service) publish(ctx context.Context, topic string, entityType string, entityID string, payload map[string]any) {
	if s.Publisher == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return
	}
	envelope := events.Envelope{
		EventID:        eventID,
		EventType:      topic,
		SourceService:  "revshare",
		OccurredAtUTC:  s.Clock.Now().UTC(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	}
	if err := s.Publisher.Publish(ctx, topic, envelope); err != nil {
		ResolveLogger(s.Logger).Warn("event publish failed",
			"event", "ledger_publish_failed",
			"module", "earnings-core/entitlement-ledger",
			"layer", "application",
			"topic", topic,
			"error", err.Error(),
		)
	}
}
