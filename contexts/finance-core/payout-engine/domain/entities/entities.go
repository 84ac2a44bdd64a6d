package entities

import "time"

// Share is one contributor's computed portion of the pool.
type Share struct {
	ContributorHandle string
	Destination       string
	EntitlementTotal  int64
	Amount            int64
}

// Allocation is the result of splitting a period's pool. Shares are ordered
// by contributor handle ascending; the order is part of the contract so
// repeated runs are deterministic.
type Allocation struct {
	Period           string
	RevenueTotal     int64
	PoolPercent      int64
	PoolAmount       int64
	EntitlementTotal int64
	Shares           []Share
}

// Payout records one successful transfer. Failed attempts write no row.
type Payout struct {
	ID                string
	ContributorHandle string
	Period            string
	Amount            int64
	TransferID        string
	CreatedAt         time.Time
}

type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// Outcome is one contributor's result within a distribution run.
type Outcome struct {
	ContributorHandle string
	Amount            int64
	Status            OutcomeStatus
	TransferID        string
	Reason            string
}

// RunResult is the structured result of a distribution run. It is returned
// even when individual transfers fail.
type RunResult struct {
	Period           string
	RevenueTotal     int64
	PoolAmount       int64
	EntitlementTotal int64
	Outcomes         []Outcome
}
