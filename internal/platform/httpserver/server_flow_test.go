package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	entitlementledger "revshare/contexts/earnings-core/entitlement-ledger"
	ledgerapp "revshare/contexts/earnings-core/entitlement-ledger/application"
	ledgerhttp "revshare/contexts/earnings-core/entitlement-ledger/transport/http"
	payoutengine "revshare/contexts/finance-core/payout-engine"
	payoutapp "revshare/contexts/finance-core/payout-engine/application"
	payouthttp "revshare/contexts/finance-core/payout-engine/transport/http"
	revenueledger "revshare/contexts/finance-core/revenue-ledger"
	contributorregistry "revshare/contexts/identity-access/contributor-registry"
)

func doJSON(t *testing.T, server *Server, method string, path string, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-Admin-Token", testAdminToken)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestSaleToEarningsFlow(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/sales",
		`{"transaction_id":"tx-100","amount":5000,"fee_amount":1000,"seller_handle":"alice","occurred_at":"2025-06-10T12:00:00Z"}`, false)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	// Replay returns the stored sale without creating anything.
	rr = doJSON(t, server, http.MethodPost, "/sales",
		`{"transaction_id":"tx-100","amount":5000,"fee_amount":1000,"seller_handle":"alice","occurred_at":"2025-06-10T12:00:00Z"}`, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/earnings?user=alice&period=2025-06", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var earnings ledgerhttp.EarningsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &earnings); err != nil {
		t.Fatalf("decode earnings: %v", err)
	}
	if len(earnings.Rows) != 1 || earnings.Rows[0].Total != 300 {
		t.Fatalf("expected single commission row of 300, got %+v", earnings.Rows)
	}
}

func TestDistributionFlow(t *testing.T) {
	registry := contributorregistry.NewInMemoryModule(nil, nil)
	ledger := entitlementledger.NewInMemoryModule(registry.Service, ledgerapp.Settings{}, nil)
	revenue := revenueledger.NewInMemoryModule(nil)
	payouts := payoutengine.NewInMemoryModule(revenue.Service, payoutapp.Settings{}, nil)
	payouts.Earnings.Add("2025-06", "alice", "acct_alice", 700)
	payouts.Earnings.Add("2025-06", "bob", "acct_bob", 300)
	server := New(registry, ledger, revenue, payouts, testAdminToken, nil, "")

	rr := doJSON(t, server, http.MethodPost, "/revenue", `{"period":"2025-06","amount":10000}`, true)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/payouts/distribute", `{"period":"2025-06","dry_run":true}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 preview, got %d body=%s", rr.Code, rr.Body.String())
	}
	var preview payouthttp.AllocationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if preview.PoolAmount != 3000 || len(preview.Shares) != 2 {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	rr = doJSON(t, server, http.MethodPost, "/payouts/distribute", `{"period":"2025-06"}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var run payouthttp.DistributeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if len(run.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %+v", run.Outcomes)
	}
	if run.Outcomes[0].Amount != 2100 || run.Outcomes[1].Amount != 900 {
		t.Fatalf("unexpected amounts: %+v", run.Outcomes)
	}

	rr = doJSON(t, server, http.MethodGet, "/payouts?period=2025-06", "", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var list payouthttp.ListPayoutsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode payouts: %v", err)
	}
	if len(list.Payouts) != 2 {
		t.Fatalf("expected 2 payouts, got %+v", list.Payouts)
	}
}
