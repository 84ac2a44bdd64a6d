package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DistributeRequest struct {
	Period      string `json:"period,omitempty"`
	PoolPercent int64  `json:"pool_percent,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

type ShareView struct {
	Contributor      string `json:"contributor"`
	EntitlementTotal int64  `json:"entitlement_total"`
	Amount           int64  `json:"amount"`
}

type AllocationResponse struct {
	Period           string      `json:"period"`
	RevenueTotal     int64       `json:"revenue_total"`
	PoolPercent      int64       `json:"pool_percent"`
	PoolAmount       int64       `json:"pool_amount"`
	EntitlementTotal int64       `json:"entitlement_total"`
	Shares           []ShareView `json:"shares"`
}

type OutcomeView struct {
	Contributor string `json:"contributor"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	TransferID  string `json:"transfer_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type DistributeResponse struct {
	Period           string        `json:"period"`
	RevenueTotal     int64         `json:"revenue_total"`
	PoolAmount       int64         `json:"pool_amount"`
	EntitlementTotal int64         `json:"entitlement_total"`
	Outcomes         []OutcomeView `json:"outcomes"`
}

type PayoutView struct {
	PayoutID    string `json:"payout_id"`
	Contributor string `json:"contributor"`
	Period      string `json:"period"`
	Amount      int64  `json:"amount"`
	TransferID  string `json:"transfer_id"`
	CreatedAt   string `json:"created_at"`
}

type ListPayoutsResponse struct {
	Payouts []PayoutView `json:"payouts"`
}
