package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type IngestSaleRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	FeeAmount     int64  `json:"fee_amount"`
	Currency      string `json:"currency,omitempty"`
	BuyerRef      string `json:"buyer_ref,omitempty"`
	SellerHandle  string `json:"seller_handle,omitempty"`
	OccurredAt    string `json:"occurred_at,omitempty"`
}

type IngestSaleResponse struct {
	SaleID        string `json:"sale_id"`
	TransactionID string `json:"transaction_id"`
	Period        string `json:"period"`
	Created       bool   `json:"created"`
}

type StartSessionRequest struct {
	ContributorHandle string `json:"contributor_handle"`
	TicketID          string `json:"ticket_id,omitempty"`
	Channel           string `json:"channel,omitempty"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	StartedAt string `json:"started_at"`
}

type CloseSessionRequest struct {
	Evidence map[string]string `json:"evidence,omitempty"`
}

type CloseSessionResponse struct {
	SessionID string `json:"session_id"`
	Minutes   int64  `json:"minutes"`
	EndedAt   string `json:"ended_at"`
}

type ApproveSessionResponse struct {
	SessionID string `json:"session_id"`
	Period    string `json:"period"`
	Amount    int64  `json:"amount"`
}

type EarningsRow struct {
	Period   string `json:"period"`
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

type EarningsResponse struct {
	ContributorHandle string        `json:"contributor_handle"`
	Rows              []EarningsRow `json:"rows"`
}
