package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	entitlementledger "revshare/contexts/earnings-core/entitlement-ledger"
	payoutengine "revshare/contexts/finance-core/payout-engine"
	revenueledger "revshare/contexts/finance-core/revenue-ledger"
	contributorregistry "revshare/contexts/identity-access/contributor-registry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	adminToken string
	registry   contributorregistry.Module
	ledger     entitlementledger.Module
	revenue    revenueledger.Module
	payouts    payoutengine.Module
}

func New(
	registry contributorregistry.Module,
	ledger entitlementledger.Module,
	revenue revenueledger.Module,
	payouts payoutengine.Module,
	adminToken string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		adminToken: adminToken,
		registry:   registry,
		ledger:     ledger,
		revenue:    revenue,
		payouts:    payouts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /health", s.handleHealthz)

	s.registerIdentityRoutes()
	s.registerEarningsRoutes()
	s.registerFinanceRoutes()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdmin gates mutating finance operations behind the shared admin
// token. An unset token rejects everything rather than opening the routes.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	presented := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
	if s.adminToken == "" || presented == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(s.adminToken)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "unauthorized",
			"message": "a valid X-Admin-Token header is required",
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
