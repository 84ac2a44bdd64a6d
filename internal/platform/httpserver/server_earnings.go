package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	ledgererrors "revshare/contexts/earnings-core/entitlement-ledger/domain/errors"
	ledgerhttp "revshare/contexts/earnings-core/entitlement-ledger/transport/http"
)

func (s *Server) registerEarningsRoutes() {
	s.mux.HandleFunc("POST /sales", s.handleIngestSale)
	s.mux.HandleFunc("POST /support/sessions", s.handleStartSession)
	s.mux.HandleFunc("POST /support/sessions/{session_id}/stop", s.handleCloseSession)
	s.mux.HandleFunc("POST /support/sessions/{session_id}/approve", s.handleApproveSession)
	s.mux.HandleFunc("GET /earnings", s.handleEarnings)
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidSaleInput),
		errors.Is(err, ledgererrors.ErrInvalidSessionInput),
		errors.Is(err, ledgererrors.ErrInvalidPeriod),
		errors.Is(err, ledgererrors.ErrInvalidAmount),
		errors.Is(err, ledgererrors.ErrInvalidCategory):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrSaleNotFound),
		errors.Is(err, ledgererrors.ErrSessionNotFound):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrSessionAlreadyClosed),
		errors.Is(err, ledgererrors.ErrSessionNotClosed),
		errors.Is(err, ledgererrors.ErrSessionAlreadyApproved),
		errors.Is(err, ledgererrors.ErrDuplicateEntitlement):
		writeLedgerError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleIngestSale(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.IngestSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.IngestSaleHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.StartSessionHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.PathValue("session_id"))
	req := ledgerhttp.CloseSessionRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.ledger.Handler.CloseSessionHandler(r.Context(), sessionID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleApproveSession converts a closed session into an entitlement, so it
// is admin-gated like the other money-moving operations.
func (s *Server) handleApproveSession(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("session_id"))
	approvedBy := strings.TrimSpace(r.Header.Get("X-Admin-Id"))
	if approvedBy == "" {
		approvedBy = "admin"
	}
	resp, err := s.ledger.Handler.ApproveSessionHandler(r.Context(), sessionID, approvedBy)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	handle := strings.TrimSpace(query.Get("user"))
	if handle == "" {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "user query parameter is required")
		return
	}
	resp, err := s.ledger.Handler.EarningsHandler(r.Context(), handle, strings.TrimSpace(query.Get("period")))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
