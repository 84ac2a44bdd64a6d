package redislock

import (
	"context"
	"log/slog"
	"time"

	domainerrors "revshare/contexts/finance-core/payout-engine/domain/errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revshare:distribution:"

// Lock serializes distribution runs across processes with a per-period
// SETNX key. The TTL bounds how long a crashed run can block the period.
type Lock struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Lock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Lock{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (l *Lock) Acquire(ctx context.Context, period string) (func(), error) {
	key := keyPrefix + period
	acquired, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, domainerrors.ErrDistributionInProgress
	}
	return func() {
		// Release outlives the run's context so an aborted run still
		// frees the period.
		if err := l.client.Del(context.Background(), key).Err(); err != nil {
			l.logger.Warn("distribution lock release failed",
				"event", "distribution_lock_release_failed",
				"module", "finance-core/payout-engine",
				"layer", "adapter",
				"period", period,
				"error", err.Error(),
			)
		}
	}, nil
}
