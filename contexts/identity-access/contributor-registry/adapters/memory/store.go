package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"revshare/contexts/identity-access/contributor-registry/domain/entities"
	domainerrors "revshare/contexts/identity-access/contributor-registry/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	contributors map[string]entities.Contributor
	now          time.Time
}

func NewStore(seed []entities.Contributor) *Store {
	contributors := make(map[string]entities.Contributor, len(seed))
	for _, contributor := range seed {
		contributors[contributor.Handle] = contributor
	}
	return &Store{contributors: contributors}
}

func (s *Store) CreateContributor(_ context.Context, contributor entities.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contributors[contributor.Handle]; exists {
		return domainerrors.ErrContributorExists
	}
	s.contributors[contributor.Handle] = contributor
	return nil
}

func (s *Store) GetByHandle(_ context.Context, handle string) (entities.Contributor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contributor, exists := s.contributors[strings.TrimSpace(handle)]
	if !exists {
		return entities.Contributor{}, domainerrors.ErrContributorNotFound
	}
	return contributor, nil
}

func (s *Store) UpdateContributor(_ context.Context, contributor entities.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contributors[contributor.Handle]; !exists {
		return domainerrors.ErrContributorNotFound
	}
	s.contributors[contributor.Handle] = contributor
	return nil
}

func (s *Store) ListContributors(_ context.Context) ([]entities.Contributor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contributors := make([]entities.Contributor, 0, len(s.contributors))
	for _, contributor := range s.contributors {
		contributors = append(contributors, contributor)
	}
	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].Handle < contributors[j].Handle
	})
	return contributors, nil
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
