package application

import (
	"revshare/contexts/finance-core/payout-engine/domain/entities"
	"revshare/contexts/finance-core/payout-engine/ports"
)

// ComputeAllocation splits a period's pool across the given earnings rows.
// Rows must already be filtered to qualifying contributors and ordered by
// handle ascending; the function preserves that order.
//
// The pool is floor(revenueTotal * poolPercent / 100). Each share is
// floor(pool * contributorTotal / entitlementTotal). Shares that floor to
// zero are dropped, and the rounding residual stays undistributed, so the
// sum of shares never exceeds the pool.
func ComputeAllocation(periodLabel string, revenueTotal int64, poolPercent int64, earnings []ports.ContributorEarnings) entities.Allocation {
	allocation := entities.Allocation{
		Period:       periodLabel,
		RevenueTotal: revenueTotal,
		PoolPercent:  poolPercent,
		Shares:       []entities.Share{},
	}
	if revenueTotal <= 0 {
		return allocation
	}
	allocation.PoolAmount = revenueTotal * poolPercent / 100

	for _, row := range earnings {
		allocation.EntitlementTotal += row.Total
	}
	if allocation.PoolAmount <= 0 || allocation.EntitlementTotal <= 0 {
		return allocation
	}

	for _, row := range earnings {
		amount := allocation.PoolAmount * row.Total / allocation.EntitlementTotal
		if amount <= 0 {
			continue
		}
		allocation.Shares = append(allocation.Shares, entities.Share{
			ContributorHandle: row.Handle,
			Destination:       row.Destination,
			EntitlementTotal:  row.Total,
			Amount:            amount,
		})
	}
	return allocation
}
