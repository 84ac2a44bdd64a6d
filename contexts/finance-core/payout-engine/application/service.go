package application

import (
	"context"
	"log/slog"

	"revshare/contexts/finance-core/payout-engine/domain/entities"
	domainerrors "revshare/contexts/finance-core/payout-engine/domain/errors"
	"revshare/contexts/finance-core/payout-engine/ports"
	"revshare/internal/platform/metrics"
	"revshare/internal/shared/events"
	"revshare/internal/shared/period"
)

const (
	defaultPoolPercent = 30
	defaultCurrency    = "usd"

	TopicRunCompleted = "payouts.run_completed"
)

// Settings are the distribution defaults threaded in at construction.
type Settings struct {
	DefaultPoolPercent int64
	Currency           string
}

type Service struct {
	Repository ports.Repository
	Revenue    ports.RevenueSource
	Earnings   ports.EarningsSource
	Gateway    ports.TransferGateway
	Lock       ports.RunLock
	Publisher  ports.Publisher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Settings   Settings
	Logger     *slog.Logger
}

// Allocate computes the period's pool split without moving any money.
// An empty period resolves to the latest recorded revenue period; a zero
// poolPercent falls back to the configured default.
func (s Service) Allocate(ctx context.Context, periodLabel string, poolPercent int64) (entities.Allocation, error) {
	periodLabel, poolPercent, err := s.resolveRun(ctx, periodLabel, poolPercent)
	if err != nil {
		return entities.Allocation{}, err
	}

	revenueTotal, err := s.Revenue.TotalRevenue(ctx, periodLabel)
	if err != nil {
		return entities.Allocation{}, err
	}
	earnings, err := s.Earnings.QualifyingEarnings(ctx, periodLabel)
	if err != nil {
		return entities.Allocation{}, err
	}
	return ComputeAllocation(periodLabel, revenueTotal, poolPercent, earnings), nil
}

// Distribute runs a full payout batch for the period: allocate, then issue
// one transfer per share. A contributor already paid for the period is
// skipped; a failed transfer is recorded in the result and the batch
// continues. Only systemic failures (store down, context canceled, revenue
// no longer covering the pool) abort the run, and even then the outcomes
// collected so far are returned alongside the error.
func (s Service) Distribute(ctx context.Context, periodLabel string, poolPercent int64) (entities.RunResult, error) {
	logger := ResolveLogger(s.Logger)
	periodLabel, poolPercent, err := s.resolveRun(ctx, periodLabel, poolPercent)
	if err != nil {
		return entities.RunResult{}, err
	}

	release, err := s.Lock.Acquire(ctx, periodLabel)
	if err != nil {
		return entities.RunResult{}, err
	}
	defer release()

	allocation, err := s.Allocate(ctx, periodLabel, poolPercent)
	if err != nil {
		return entities.RunResult{}, err
	}
	result := entities.RunResult{
		Period:           allocation.Period,
		RevenueTotal:     allocation.RevenueTotal,
		PoolAmount:       allocation.PoolAmount,
		EntitlementTotal: allocation.EntitlementTotal,
		Outcomes:         []entities.Outcome{},
	}

	if len(allocation.Shares) > 0 {
		// The allocation was computed from a revenue snapshot. Re-read before
		// moving money: a total that shrank below the snapshot means the pool
		// is no longer covered.
		current, err := s.Revenue.TotalRevenue(ctx, periodLabel)
		if err != nil {
			return result, err
		}
		if current < allocation.RevenueTotal {
			logger.Error("revenue no longer covers allocation, aborting run",
				"event", "distribution_aborted",
				"module", "finance-core/payout-engine",
				"layer", "application",
				"period", periodLabel,
				"allocated_from", allocation.RevenueTotal,
				"current", current,
			)
			return result, domainerrors.ErrInconsistentAllocation
		}
	}

	for _, share := range allocation.Shares {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outcome, err := s.issue(ctx, periodLabel, share)
		if err != nil {
			return result, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
		metrics.TransfersIssued.WithLabelValues(string(outcome.Status)).Inc()
	}

	metrics.DistributionRuns.Inc()
	metrics.LastPoolAmount.Set(float64(result.PoolAmount))
	logger.Info("distribution run completed",
		"event", "distribution_completed",
		"module", "finance-core/payout-engine",
		"layer", "application",
		"period", periodLabel,
		"pool", result.PoolAmount,
		"outcomes", len(result.Outcomes),
	)
	s.publishRunCompleted(ctx, result)
	return result, nil
}

// issue attempts one contributor's transfer. Gateway failures become a
// failed outcome; repository failures abort the run because the payout
// record is what makes retries idempotent.
func (s Service) issue(ctx context.Context, periodLabel string, share entities.Share) (entities.Outcome, error) {
	logger := ResolveLogger(s.Logger)

	paid, err := s.Repository.HasPayout(ctx, share.ContributorHandle, periodLabel)
	if err != nil {
		return entities.Outcome{}, err
	}
	if paid {
		return entities.Outcome{
			ContributorHandle: share.ContributorHandle,
			Amount:            share.Amount,
			Status:            entities.OutcomeSkipped,
			Reason:            "already paid for period",
		}, nil
	}

	transferID, err := s.Gateway.CreateTransfer(ctx, ports.TransferRequest{
		Amount:      share.Amount,
		Currency:    s.currency(),
		Destination: share.Destination,
		Description: "revshare " + periodLabel,
		Metadata: map[string]string{
			"period":      periodLabel,
			"contributor": share.ContributorHandle,
		},
	})
	if err != nil {
		logger.Warn("transfer failed",
			"event", "transfer_failed",
			"module", "finance-core/payout-engine",
			"layer", "application",
			"period", periodLabel,
			"contributor", share.ContributorHandle,
			"amount", share.Amount,
			"error", err.Error(),
		)
		return entities.Outcome{
			ContributorHandle: share.ContributorHandle,
			Amount:            share.Amount,
			Status:            entities.OutcomeFailed,
			Reason:            err.Error(),
		}, nil
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Outcome{}, err
	}
	payout := entities.Payout{
		ID:                id,
		ContributorHandle: share.ContributorHandle,
		Period:            periodLabel,
		Amount:            share.Amount,
		TransferID:        transferID,
		CreatedAt:         s.Clock.Now().UTC(),
	}
	if err := s.Repository.CreatePayout(ctx, payout); err != nil {
		logger.Error("payout record write failed after transfer",
			"event", "payout_record_failed",
			"module", "finance-core/payout-engine",
			"layer", "application",
			"period", periodLabel,
			"contributor", share.ContributorHandle,
			"transfer_id", transferID,
			"error", err.Error(),
		)
		return entities.Outcome{}, err
	}
	return entities.Outcome{
		ContributorHandle: share.ContributorHandle,
		Amount:            share.Amount,
		Status:            entities.OutcomeSucceeded,
		TransferID:        transferID,
	}, nil
}

func (s Service) ListPayouts(ctx context.Context, periodLabel string) ([]entities.Payout, error) {
	if periodLabel != "" {
		if err := period.Validate(periodLabel); err != nil {
			return nil, domainerrors.ErrInvalidPeriod
		}
	}
	return s.Repository.ListPayouts(ctx, periodLabel)
}

// resolveRun normalizes the run inputs. The period defaults to the latest
// recorded revenue period, the pool percent to the configured default.
func (s Service) resolveRun(ctx context.Context, periodLabel string, poolPercent int64) (string, int64, error) {
	if poolPercent == 0 {
		poolPercent = s.Settings.DefaultPoolPercent
	}
	if poolPercent == 0 {
		poolPercent = defaultPoolPercent
	}
	if poolPercent < 0 || poolPercent > 100 {
		return "", 0, domainerrors.ErrInvalidPoolPercent
	}
	if periodLabel == "" {
		latest, err := s.Revenue.LatestPeriod(ctx)
		if err != nil {
			return "", 0, err
		}
		periodLabel = latest
	}
	if err := period.Validate(periodLabel); err != nil {
		return "", 0, domainerrors.ErrInvalidPeriod
	}
	return periodLabel, poolPercent, nil
}

func (s Service) currency() string {
	if s.Settings.Currency == "" {
		return defaultCurrency
	}
	return s.Settings.Currency
}

func (s Service) publishRunCompleted(ctx context.Context, result entities.RunResult) {
	if s.Publisher == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return
	}
	var succeeded, failed, skipped int
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case entities.OutcomeSucceeded:
			succeeded++
		case entities.OutcomeFailed:
			failed++
		case entities.OutcomeSkipped:
			skipped++
		}
	}
	envelope := events.Envelope{
		EventID:        eventID,
		EventType:      TopicRunCompleted,
		SourceService:  "revshare",
		OccurredAtUTC:  s.Clock.Now().UTC(),
		EntityType:     "distribution_run",
		EntityID:       result.Period,
		PayloadVersion: 1,
		Payload: map[string]any{
			"period":            result.Period,
			"revenue_total":     result.RevenueTotal,
			"pool_amount":       result.PoolAmount,
			"entitlement_total": result.EntitlementTotal,
			"succeeded":         succeeded,
			"failed":            failed,
			"skipped":           skipped,
		},
	}
	if err := s.Publisher.Publish(ctx, TopicRunCompleted, envelope); err != nil {
		ResolveLogger(s.Logger).Warn("event publish failed",
			"event", "payout_publish_failed",
			"module", "finance-core/payout-engine",
			"layer", "application",
			"topic", TopicRunCompleted,
			"error", err.Error(),
		)
	}
}
