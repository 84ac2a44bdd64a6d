package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordRevenueRequest struct {
	Period string `json:"period"`
	Amount int64  `json:"amount"`
}

type RecordRevenueResponse struct {
	RecordID   string `json:"record_id"`
	Period     string `json:"period"`
	Amount     int64  `json:"amount"`
	RecordedAt string `json:"recorded_at"`
}

type LatestPeriodResponse struct {
	Period string `json:"period"`
}
