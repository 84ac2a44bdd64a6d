package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterContributorRequest struct {
	Handle     string `json:"handle"`
	ExternalID string `json:"external_id,omitempty"`
	Role       string `json:"role,omitempty"`
}

type LinkDestinationRequest struct {
	Destination string `json:"destination"`
}

type SupportOptRequest struct {
	SupportOptIn bool `json:"support_opt_in"`
}

type ContributorDTO struct {
	Handle              string `json:"handle"`
	ExternalID          string `json:"external_id,omitempty"`
	Role                string `json:"role"`
	PayoutDestination   string `json:"payout_destination,omitempty"`
	DestinationLinkedAt string `json:"destination_linked_at,omitempty"`
	SupportOptIn        bool   `json:"support_opt_in"`
}
