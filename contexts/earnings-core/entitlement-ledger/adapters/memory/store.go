package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"revshare/contexts/earnings-core/entitlement-ledger/domain/entities"
	domainerrors "revshare/contexts/earnings-core/entitlement-ledger/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	sales        map[string]entities.SaleEvent // by transaction id
	entitlements map[string]entities.Entitlement
	sessions     map[string]entities.SupportSession
	now          time.Time
}

func NewStore() *Store {
	return &Store{
		sales:        make(map[string]entities.SaleEvent),
		entitlements: make(map[string]entities.Entitlement),
		sessions:     make(map[string]entities.SupportSession),
	}
}

func sourceKey(source entities.SourceRef, category entities.Category) string {
	return source.Table + "|" + source.ID + "|" + string(category)
}

func (s *Store) CreateSale(_ context.Context, sale entities.SaleEvent) (entities.SaleEvent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.sales[sale.TransactionID]; exists {
		return existing, false, nil
	}
	s.sales[sale.TransactionID] = sale
	return sale, true, nil
}

func (s *Store) GetSaleByTransaction(_ context.Context, transactionID string) (entities.SaleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, exists := s.sales[strings.TrimSpace(transactionID)]
	if !exists {
		return entities.SaleEvent{}, domainerrors.ErrSaleNotFound
	}
	return sale, nil
}

func (s *Store) CreateEntitlement(_ context.Context, entitlement entities.Entitlement) (entities.Entitlement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sourceKey(entitlement.Source, entitlement.Category)
	if existing, exists := s.entitlements[key]; exists {
		return existing, false, nil
	}
	s.entitlements[key] = entitlement
	return entitlement, true, nil
}

func (s *Store) SumEarnings(_ context.Context, contributorHandle string, period string) ([]entities.EarningsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type groupKey struct {
		period   string
		category entities.Category
	}
	totals := make(map[groupKey]int64)
	for _, entitlement := range s.entitlements {
		if entitlement.ContributorHandle != strings.TrimSpace(contributorHandle) {
			continue
		}
		if period != "" && entitlement.Period != period {
			continue
		}
		totals[groupKey{entitlement.Period, entitlement.Category}] += entitlement.Amount
	}

	summaries := make([]entities.EarningsSummary, 0, len(totals))
	for key, total := range totals {
		summaries = append(summaries, entities.EarningsSummary{
			Period:   key.period,
			Category: key.category,
			Total:    total,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Period != summaries[j].Period {
			return summaries[i].Period > summaries[j].Period
		}
		return summaries[i].Category < summaries[j].Category
	})
	return summaries, nil
}

func (s *Store) CreateSession(_ context.Context, session entities.SupportSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.SupportSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[strings.TrimSpace(sessionID)]
	if !exists {
		return entities.SupportSession{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) UpdateSession(_ context.Context, session entities.SupportSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return domainerrors.ErrSessionNotFound
	}
	s.sessions[session.ID] = session
	return nil
}

// TotalsByContributor sums entitlements per contributor for a period. The
// payout engine's in-memory earnings source composes on this.
func (s *Store) TotalsByContributor(period string) map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int64)
	for _, entitlement := range s.entitlements {
		if entitlement.Period == period {
			totals[entitlement.ContributorHandle] += entitlement.Amount
		}
	}
	return totals
}

// EntitlementCount reports how many entitlement rows exist; tests assert
// idempotency with it.
func (s *Store) EntitlementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entitlements)
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
