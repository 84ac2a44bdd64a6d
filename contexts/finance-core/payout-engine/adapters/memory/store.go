package memory

import (
	"context"
	"sync"
	"time"

	"revshare/contexts/finance-core/payout-engine/domain/entities"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	payouts []entities.Payout
	now     time.Time

	failCreate error
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) CreatePayout(_ context.Context, payout entities.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	s.payouts = append(s.payouts, payout)
	return nil
}

func (s *Store) HasPayout(_ context.Context, contributorHandle string, period string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, payout := range s.payouts {
		if payout.ContributorHandle == contributorHandle && payout.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListPayouts(_ context.Context, period string) ([]entities.Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payouts := make([]entities.Payout, 0)
	for _, payout := range s.payouts {
		if period == "" || payout.Period == period {
			payouts = append(payouts, payout)
		}
	}
	return payouts, nil
}

// FailCreateWith makes every subsequent CreatePayout return err. Pass nil
// to restore normal behavior.
func (s *Store) FailCreateWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = err
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
