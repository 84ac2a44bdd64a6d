package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	revenueledger "revshare/contexts/finance-core/revenue-ledger"
	domainerrors "revshare/contexts/finance-core/revenue-ledger/domain/errors"
)

func TestTotalRevenueSumsPeriodRecords(t *testing.T) {
	module := revenueledger.NewInMemoryModule(nil)

	for _, amount := range []int64{4_000, 5_000, 1_000} {
		if _, err := module.Service.Record(context.Background(), "2025-06", amount); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if _, err := module.Service.Record(context.Background(), "2025-07", 2_500); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	total, err := module.Service.TotalRevenue(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if total != 10_000 {
		t.Fatalf("expected 10000, got %d", total)
	}
}

func TestTotalRevenueZeroForEmptyPeriod(t *testing.T) {
	module := revenueledger.NewInMemoryModule(nil)

	total, err := module.Service.TotalRevenue(context.Background(), "2025-01")
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0, got %d", total)
	}
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	module := revenueledger.NewInMemoryModule(nil)

	if _, err := module.Service.Record(context.Background(), "2025-6", 100); !errors.Is(err, domainerrors.ErrInvalidPeriod) {
		t.Fatalf("expected invalid period error, got %v", err)
	}
	if _, err := module.Service.Record(context.Background(), "2025-06", 0); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
}

func TestLatestPeriodTracksMostRecentRecord(t *testing.T) {
	module := revenueledger.NewInMemoryModule(nil)

	module.Store.SetNow(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	if _, err := module.Service.Record(context.Background(), "2025-06", 100); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	module.Store.SetNow(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	if _, err := module.Service.Record(context.Background(), "2025-07", 100); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	latest, err := module.Service.LatestPeriod(context.Background())
	if err != nil {
		t.Fatalf("latest period failed: %v", err)
	}
	if latest != "2025-07" {
		t.Fatalf("expected 2025-07, got %s", latest)
	}
}

func TestLatestPeriodFallsBackToCalendar(t *testing.T) {
	module := revenueledger.NewInMemoryModule(nil)
	module.Store.SetNow(time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC))

	latest, err := module.Service.LatestPeriod(context.Background())
	if err != nil {
		t.Fatalf("latest period failed: %v", err)
	}
	if latest != "2025-08" {
		t.Fatalf("expected calendar fallback 2025-08, got %s", latest)
	}
}
