package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	payouterrors "revshare/contexts/finance-core/payout-engine/domain/errors"
	payouthttp "revshare/contexts/finance-core/payout-engine/transport/http"
	revenueerrors "revshare/contexts/finance-core/revenue-ledger/domain/errors"
	revenuehttp "revshare/contexts/finance-core/revenue-ledger/transport/http"
)

func (s *Server) registerFinanceRoutes() {
	s.mux.HandleFunc("POST /revenue", s.handleRecordRevenue)
	s.mux.HandleFunc("GET /periods/latest", s.handleLatestPeriod)
	s.mux.HandleFunc("POST /payouts/distribute", s.handleDistribute)
	s.mux.HandleFunc("GET /payouts", s.handleListPayouts)
}

func writeRevenueError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, revenuehttp.ErrorResponse{Code: code, Message: message})
}

func writeRevenueDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, revenueerrors.ErrInvalidPeriod),
		errors.Is(err, revenueerrors.ErrInvalidAmount):
		writeRevenueError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRevenueError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePayoutError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, payouthttp.ErrorResponse{Code: code, Message: message})
}

func writePayoutDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payouterrors.ErrInvalidPeriod),
		errors.Is(err, payouterrors.ErrInvalidPoolPercent):
		writePayoutError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, payouterrors.ErrDistributionInProgress):
		writePayoutError(w, http.StatusConflict, "distribution_in_progress", err.Error())
	case errors.Is(err, payouterrors.ErrInconsistentAllocation):
		writePayoutError(w, http.StatusConflict, "inconsistent_allocation", err.Error())
	default:
		writePayoutError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRecordRevenue(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req revenuehttp.RecordRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRevenueError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.revenue.Handler.RecordRevenueHandler(r.Context(), req)
	if err != nil {
		writeRevenueDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLatestPeriod(w http.ResponseWriter, r *http.Request) {
	resp, err := s.revenue.Handler.LatestPeriodHandler(r.Context())
	if err != nil {
		writeRevenueDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	req := payouthttp.DistributeRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writePayoutError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	if req.DryRun {
		resp, err := s.payouts.Handler.AllocateHandler(r.Context(), req)
		if err != nil {
			writePayoutDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp, err := s.payouts.Handler.DistributeHandler(r.Context(), req)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.payouts.Handler.ListPayoutsHandler(r.Context(), strings.TrimSpace(r.URL.Query().Get("period")))
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
