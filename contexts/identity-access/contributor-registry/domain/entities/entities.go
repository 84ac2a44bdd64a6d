package entities

import "time"

// Contributor is a person eligible for revenue-share payouts, keyed by the
// external account handle delivered with earning events.
type Contributor struct {
	ID                  string
	Handle              string
	ExternalID          string
	Role                string
	PayoutDestination   string
	DestinationLinkedAt *time.Time
	SupportOptIn        bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const DefaultRole = "contributor"
