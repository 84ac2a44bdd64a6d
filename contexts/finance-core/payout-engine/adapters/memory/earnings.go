package memory

import (
	"context"
	"sort"
	"sync"

	"revshare/contexts/finance-core/payout-engine/ports"
)

type earningsRow struct {
	period      string
	handle      string
	destination string
	total       int64
}

// EarningsStore is a seedable in-memory earnings source. Rows with an empty
// destination or a non-positive total never qualify, matching the join the
// postgres adapter performs.
type EarningsStore struct {
	mu   sync.RWMutex
	rows []earningsRow
}

func NewEarningsStore() *EarningsStore {
	return &EarningsStore{}
}

func (s *EarningsStore) Add(period string, handle string, destination string, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, earningsRow{
		period:      period,
		handle:      handle,
		destination: destination,
		total:       total,
	})
}

func (s *EarningsStore) QualifyingEarnings(_ context.Context, period string) ([]ports.ContributorEarnings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]ports.ContributorEarnings)
	for _, row := range s.rows {
		if row.period != period {
			continue
		}
		entry := totals[row.handle]
		entry.Handle = row.handle
		if row.destination != "" {
			entry.Destination = row.destination
		}
		entry.Total += row.total
		totals[row.handle] = entry
	}

	earnings := make([]ports.ContributorEarnings, 0, len(totals))
	for _, entry := range totals {
		if entry.Destination == "" || entry.Total <= 0 {
			continue
		}
		earnings = append(earnings, entry)
	}
	sort.Slice(earnings, func(i, j int) bool {
		return earnings[i].Handle < earnings[j].Handle
	})
	return earnings, nil
}
