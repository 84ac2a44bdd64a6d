package memory

import (
	"context"
	"sync"

	domainerrors "revshare/contexts/finance-core/payout-engine/domain/errors"
)

// Lock is an in-process run lock keyed by period.
type Lock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLock() *Lock {
	return &Lock{held: make(map[string]bool)}
}

func (l *Lock) Acquire(_ context.Context, period string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[period] {
		return nil, domainerrors.ErrDistributionInProgress
	}
	l.held[period] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, period)
	}, nil
}
