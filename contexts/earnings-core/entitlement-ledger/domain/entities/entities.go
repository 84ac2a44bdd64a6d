package entities

import "time"

type Category string

const (
	CategorySaleCommission Category = "sale_commission"
	CategorySupport        Category = "support"
)

// SourceRef ties an entitlement back to the row that earned it.
type SourceRef struct {
	Table string
	ID    string
}

// Entitlement is a recorded claim that a contributor earned Amount minor
// units in Category during Period. Immutable once written.
type Entitlement struct {
	ID                string
	ContributorHandle string
	Period            string
	Category          Category
	Amount            int64
	Source            SourceRef
	Metadata          map[string]string
	CreatedAt         time.Time
}

// SaleEvent is an immutable record of a completed sale delivered by the
// payment provider. TransactionID is unique across all sales.
type SaleEvent struct {
	ID            string
	TransactionID string
	Period        string
	Amount        int64
	FeeAmount     int64
	Currency      string
	BuyerRef      string
	SellerHandle  string
	OccurredAt    time.Time
	CreatedAt     time.Time
}

type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusClosed   SessionStatus = "closed"
	SessionStatusApproved SessionStatus = "approved"
)

// SupportSession tracks billable support time. Lifecycle: open -> closed
// (end time + whole minutes, at least 1) -> approved (immutable; approval
// writes exactly one support entitlement).
type SupportSession struct {
	ID                string
	ContributorHandle string
	TicketID          string
	Channel           string
	Status            SessionStatus
	StartedAt         time.Time
	EndedAt           *time.Time
	Minutes           int64
	ApprovedBy        string
	ApprovedAt        *time.Time
	Evidence          map[string]string
}

// EarningsSummary is one row of the grouped earnings query.
type EarningsSummary struct {
	Period   string
	Category Category
	Total    int64
}
