package memory

import (
	"context"
	"sync"
	"time"

	"revshare/contexts/finance-core/revenue-ledger/domain/entities"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	records []entities.RevenueRecord
	now     time.Time
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) CreateRevenue(_ context.Context, record entities.RevenueRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *Store) SumByPeriod(_ context.Context, period string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, record := range s.records {
		if record.Period == period {
			total += record.Amount
		}
	}
	return total, nil
}

func (s *Store) LatestPeriod(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest entities.RevenueRecord
	for _, record := range s.records {
		if record.RecordedAt.After(latest.RecordedAt) || latest.ID == "" {
			latest = record
		}
	}
	return latest.Period, nil
}

func (s *Store) ListByPeriod(_ context.Context, period string) ([]entities.RevenueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]entities.RevenueRecord, 0)
	for _, record := range s.records {
		if record.Period == period {
			records = append(records, record)
		}
	}
	return records, nil
}

// SetNow pins the store clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
