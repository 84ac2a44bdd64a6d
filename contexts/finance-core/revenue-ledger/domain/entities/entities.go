package entities

import "time"

// RevenueRecord is one immutable revenue contribution for a period. Periods
// may receive many records; the period total is their sum.
type RevenueRecord struct {
	ID         string
	Period     string
	Amount     int64
	RecordedAt time.Time
}
