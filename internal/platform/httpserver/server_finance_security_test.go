package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	entitlementledger "revshare/contexts/earnings-core/entitlement-ledger"
	ledgerapp "revshare/contexts/earnings-core/entitlement-ledger/application"
	payoutengine "revshare/contexts/finance-core/payout-engine"
	payoutapp "revshare/contexts/finance-core/payout-engine/application"
	revenueledger "revshare/contexts/finance-core/revenue-ledger"
	contributorregistry "revshare/contexts/identity-access/contributor-registry"
)

const testAdminToken = "test-admin-token"

func newTestServer() *Server {
	registry := contributorregistry.NewInMemoryModule(nil, nil)
	ledger := entitlementledger.NewInMemoryModule(registry.Service, ledgerapp.Settings{}, nil)
	revenue := revenueledger.NewInMemoryModule(nil)
	payouts := payoutengine.NewInMemoryModule(revenue.Service, payoutapp.Settings{}, nil)
	return New(registry, ledger, revenue, payouts, testAdminToken, nil, "")
}

func TestRecordRevenueRequiresAdminToken(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"period":"2025-06","amount":10000}`)
	req := httptest.NewRequest(http.MethodPost, "/revenue", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRecordRevenueRejectsWrongAdminToken(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"period":"2025-06","amount":10000}`)
	req := httptest.NewRequest(http.MethodPost, "/revenue", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", "guess")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRecordRevenueSuccess(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"period":"2025-06","amount":10000}`)
	req := httptest.NewRequest(http.MethodPost, "/revenue", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", testAdminToken)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDistributeRequiresAdminToken(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/payouts/distribute", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestListPayoutsRequiresAdminToken(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/payouts?period=2025-06", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminRoutesRejectAllWhenTokenUnconfigured(t *testing.T) {
	registry := contributorregistry.NewInMemoryModule(nil, nil)
	ledger := entitlementledger.NewInMemoryModule(registry.Service, ledgerapp.Settings{}, nil)
	revenue := revenueledger.NewInMemoryModule(nil)
	payouts := payoutengine.NewInMemoryModule(revenue.Service, payoutapp.Settings{}, nil)
	server := New(registry, ledger, revenue, payouts, "", nil, "")

	req := httptest.NewRequest(http.MethodPost, "/revenue", bytes.NewReader([]byte(`{"period":"2025-06","amount":1}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", "")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with unconfigured token, got %d", rr.Code)
	}
}

func TestApproveSessionRequiresAdminToken(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/support/sessions/sess-1/approve", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}
