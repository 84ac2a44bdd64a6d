package application_test

import (
	"context"
	"errors"
	"testing"

	payoutengine "revshare/contexts/finance-core/payout-engine"
	"revshare/contexts/finance-core/payout-engine/application"
	"revshare/contexts/finance-core/payout-engine/domain/entities"
	domainerrors "revshare/contexts/finance-core/payout-engine/domain/errors"
	"revshare/contexts/finance-core/payout-engine/ports"
	revenueledger "revshare/contexts/finance-core/revenue-ledger"
)

func newModule(t *testing.T) (payoutengine.Module, revenueledger.Module) {
	t.Helper()
	revenue := revenueledger.NewInMemoryModule(nil)
	engine := payoutengine.NewInMemoryModule(revenue.Service, application.Settings{}, nil)
	return engine, revenue
}

func recordRevenue(t *testing.T, revenue revenueledger.Module, period string, amount int64) {
	t.Helper()
	if _, err := revenue.Service.Record(context.Background(), period, amount); err != nil {
		t.Fatalf("record revenue failed: %v", err)
	}
}

func TestAllocateSplitsPoolProportionally(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10_000)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 700)
	engine.Earnings.Add("2025-06", "bob", "acct_bob", 300)

	allocation, err := engine.Service.Allocate(context.Background(), "2025-06", 30)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocation.PoolAmount != 3_000 {
		t.Fatalf("expected pool 3000, got %d", allocation.PoolAmount)
	}
	if len(allocation.Shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(allocation.Shares))
	}
	if allocation.Shares[0].ContributorHandle != "alice" || allocation.Shares[0].Amount != 2_100 {
		t.Fatalf("unexpected first share: %+v", allocation.Shares[0])
	}
	if allocation.Shares[1].ContributorHandle != "bob" || allocation.Shares[1].Amount != 900 {
		t.Fatalf("unexpected second share: %+v", allocation.Shares[1])
	}
}

func TestAllocateFloorsSharesAndKeepsResidual(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 1_000)
	for _, handle := range []string{"alice", "bob", "carol"} {
		engine.Earnings.Add("2025-06", handle, "acct_"+handle, 1)
	}

	allocation, err := engine.Service.Allocate(context.Background(), "2025-06", 10)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocation.PoolAmount != 100 {
		t.Fatalf("expected pool 100, got %d", allocation.PoolAmount)
	}
	var distributed int64
	for _, share := range allocation.Shares {
		if share.Amount != 33 {
			t.Fatalf("expected share 33, got %d for %s", share.Amount, share.ContributorHandle)
		}
		distributed += share.Amount
	}
	if distributed != 99 {
		t.Fatalf("expected 99 distributed with residual 1, got %d", distributed)
	}
}

func TestAllocateConservesPool(t *testing.T) {
	cases := []struct {
		pool     int64
		percents int64
		totals   []int64
	}{
		{pool: 10_000, percents: 30, totals: []int64{1, 2, 3}},
		{pool: 777, percents: 50, totals: []int64{13, 7, 101, 2}},
		{pool: 3, percents: 100, totals: []int64{5, 5, 5, 5}},
		{pool: 99_999, percents: 1, totals: []int64{1_000_000, 1}},
	}
	for _, tc := range cases {
		earnings := make([]ports.ContributorEarnings, 0, len(tc.totals))
		for i, total := range tc.totals {
			earnings = append(earnings, ports.ContributorEarnings{
				Handle:      string(rune('a' + i)),
				Destination: "acct",
				Total:       total,
			})
		}
		allocation := application.ComputeAllocation("2025-06", tc.pool, tc.percents, earnings)
		var distributed int64
		for _, share := range allocation.Shares {
			if share.Amount <= 0 {
				t.Fatalf("zero share survived: %+v", share)
			}
			distributed += share.Amount
		}
		if distributed > allocation.PoolAmount {
			t.Fatalf("distributed %d exceeds pool %d", distributed, allocation.PoolAmount)
		}
	}
}

func TestAllocateComputesPoolWithoutQualifyingContributors(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 5_000)

	allocation, err := engine.Service.Allocate(context.Background(), "2025-06", 30)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocation.PoolAmount != 1_500 {
		t.Fatalf("expected pool 1500, got %d", allocation.PoolAmount)
	}
	if len(allocation.Shares) != 0 {
		t.Fatalf("expected no shares, got %d", len(allocation.Shares))
	}
}

func TestAllocateDropsSharesThatFloorToZero(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 999)
	engine.Earnings.Add("2025-06", "bob", "acct_bob", 1)

	allocation, err := engine.Service.Allocate(context.Background(), "2025-06", 100)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if len(allocation.Shares) != 1 || allocation.Shares[0].ContributorHandle != "alice" {
		t.Fatalf("expected only alice to receive a share, got %+v", allocation.Shares)
	}
}

func TestAllocateDefaultsPeriodAndPercent(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10_000)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 100)

	allocation, err := engine.Service.Allocate(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if allocation.Period != "2025-06" {
		t.Fatalf("expected latest period 2025-06, got %s", allocation.Period)
	}
	if allocation.PoolAmount != 3_000 {
		t.Fatalf("expected default 30 percent pool 3000, got %d", allocation.PoolAmount)
	}
}

func TestAllocateRejectsInvalidInput(t *testing.T) {
	engine, _ := newModule(t)

	if _, err := engine.Service.Allocate(context.Background(), "2025-06", 150); !errors.Is(err, domainerrors.ErrInvalidPoolPercent) {
		t.Fatalf("expected invalid pool percent error, got %v", err)
	}
	if _, err := engine.Service.Allocate(context.Background(), "2025-06", -5); !errors.Is(err, domainerrors.ErrInvalidPoolPercent) {
		t.Fatalf("expected invalid pool percent error, got %v", err)
	}
	if _, err := engine.Service.Allocate(context.Background(), "2025-6", 30); !errors.Is(err, domainerrors.ErrInvalidPeriod) {
		t.Fatalf("expected invalid period error, got %v", err)
	}
}

func TestDistributeIssuesTransfersAndRecordsPayouts(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10_000)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 700)
	engine.Earnings.Add("2025-06", "bob", "acct_bob", 300)

	result, err := engine.Service.Distribute(context.Background(), "2025-06", 30)
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(result.Outcomes))
	}
	for _, outcome := range result.Outcomes {
		if outcome.Status != entities.OutcomeSucceeded {
			t.Fatalf("expected succeeded, got %+v", outcome)
		}
		if outcome.TransferID == "" {
			t.Fatalf("missing transfer id: %+v", outcome)
		}
	}

	payouts, err := engine.Service.ListPayouts(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("list payouts failed: %v", err)
	}
	if len(payouts) != 2 {
		t.Fatalf("expected 2 payouts, got %d", len(payouts))
	}
	requests := engine.Gateway.Requests()
	if len(requests) != 2 || requests[0].Destination != "acct_alice" || requests[1].Destination != "acct_bob" {
		t.Fatalf("unexpected gateway requests: %+v", requests)
	}
}

func TestDistributeSkipsContributorsAlreadyPaid(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10_000)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 700)
	engine.Earnings.Add("2025-06", "bob", "acct_bob", 300)

	if _, err := engine.Service.Distribute(context.Background(), "2025-06", 30); err != nil {
		t.Fatalf("first distribute failed: %v", err)
	}
	result, err := engine.Service.Distribute(context.Background(), "2025-06", 30)
	if err != nil {
		t.Fatalf("second distribute failed: %v", err)
	}
	for _, outcome := range result.Outcomes {
		if outcome.Status != entities.OutcomeSkipped {
			t.Fatalf("expected skipped on replay, got %+v", outcome)
		}
	}
	if len(engine.Gateway.Requests()) != 2 {
		t.Fatalf("replay must not issue new transfers, saw %d", len(engine.Gateway.Requests()))
	}
}

func TestDistributeContinuesPastFailedTransfer(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10_000)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 500)
	engine.Earnings.Add("2025-06", "bob", "acct_bob", 300)
	engine.Earnings.Add("2025-06", "carol", "acct_carol", 200)
	engine.Gateway.FailFor("acct_bob", errors.New("destination account disabled"))

	result, err := engine.Service.Distribute(context.Background(), "2025-06", 30)
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	byHandle := make(map[string]entities.Outcome)
	for _, outcome := range result.Outcomes {
		byHandle[outcome.ContributorHandle] = outcome
	}
	if byHandle["alice"].Status != entities.OutcomeSucceeded || byHandle["carol"].Status != entities.OutcomeSucceeded {
		t.Fatalf("expected alice and carol to succeed: %+v", result.Outcomes)
	}
	if byHandle["bob"].Status != entities.OutcomeFailed || byHandle["bob"].Reason == "" {
		t.Fatalf("expected bob to fail with reason: %+v", byHandle["bob"])
	}

	// The retry pays only the failed contributor.
	engine.Gateway.FailFor("acct_bob", nil)
	retry, err := engine.Service.Distribute(context.Background(), "2025-06", 30)
	if err != nil {
		t.Fatalf("retry distribute failed: %v", err)
	}
	var paid int
	for _, outcome := range retry.Outcomes {
		switch outcome.ContributorHandle {
		case "bob":
			if outcome.Status != entities.OutcomeSucceeded {
				t.Fatalf("expected bob to succeed on retry: %+v", outcome)
			}
			paid++
		default:
			if outcome.Status != entities.OutcomeSkipped {
				t.Fatalf("expected %s to be skipped on retry: %+v", outcome.ContributorHandle, outcome)
			}
		}
	}
	if paid != 1 {
		t.Fatalf("expected exactly one payment on retry, got %d", paid)
	}
}

func TestDistributeSerializesRunsPerPeriod(t *testing.T) {
	engine, revenue := newModule(t)
	recordRevenue(t, revenue, "2025-06", 10_000)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 100)

	release, err := engine.Lock.Acquire(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if _, err := engine.Service.Distribute(context.Background(), "2025-06", 30); !errors.Is(err, domainerrors.ErrDistributionInProgress) {
		t.Fatalf("expected distribution in progress error, got %v", err)
	}
	release()

	if _, err := engine.Service.Distribute(context.Background(), "2025-06", 30); err != nil {
		t.Fatalf("distribute after release failed: %v", err)
	}
}

type scriptedRevenue struct {
	period string
	totals []int64
}

func (r *scriptedRevenue) TotalRevenue(context.Context, string) (int64, error) {
	total := r.totals[0]
	if len(r.totals) > 1 {
		r.totals = r.totals[1:]
	}
	return total, nil
}

func (r *scriptedRevenue) LatestPeriod(context.Context) (string, error) {
	return r.period, nil
}

func TestDistributeAbortsWhenRevenueShrinksAfterAllocation(t *testing.T) {
	revenue := &scriptedRevenue{period: "2025-06", totals: []int64{10_000, 4_000}}
	engine := payoutengine.NewInMemoryModule(revenue, application.Settings{}, nil)
	engine.Earnings.Add("2025-06", "alice", "acct_alice", 100)

	result, err := engine.Service.Distribute(context.Background(), "2025-06", 30)
	if !errors.Is(err, domainerrors.ErrInconsistentAllocation) {
		t.Fatalf("expected inconsistent allocation error, got %v", err)
	}
	if len(result.Outcomes) != 0 {
		t.Fatalf("no transfers may be issued on abort, got %+v", result.Outcomes)
	}
	if len(engine.Gateway.Requests()) != 0 {
		t.Fatalf("gateway must not be called on abort")
	}
}

func TestEarningsSourceFiltersAndOrders(t *testing.T) {
	earnings := payoutengine.NewInMemoryModule(&scriptedRevenue{period: "2025-06", totals: []int64{0}}, application.Settings{}, nil).Earnings
	earnings.Add("2025-06", "zoe", "acct_zoe", 50)
	earnings.Add("2025-06", "amir", "acct_amir", 30)
	earnings.Add("2025-06", "nolink", "", 400)
	earnings.Add("2025-07", "zoe", "acct_zoe", 999)

	rows, err := earnings.QualifyingEarnings(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("qualifying earnings failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 qualifying rows, got %+v", rows)
	}
	if rows[0].Handle != "amir" || rows[1].Handle != "zoe" {
		t.Fatalf("expected handle ascending order, got %+v", rows)
	}
	if rows[1].Total != 50 {
		t.Fatalf("expected period-scoped total 50, got %d", rows[1].Total)
	}
}
