package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	entitlementledger "revshare/contexts/earnings-core/entitlement-ledger"
	ledgerpostgres "revshare/contexts/earnings-core/entitlement-ledger/adapters/postgres"
	ledgerapp "revshare/contexts/earnings-core/entitlement-ledger/application"
	ledgerworkers "revshare/contexts/earnings-core/entitlement-ledger/application/workers"
	payoutengine "revshare/contexts/finance-core/payout-engine"
	payoutmemory "revshare/contexts/finance-core/payout-engine/adapters/memory"
	payoutpostgres "revshare/contexts/finance-core/payout-engine/adapters/postgres"
	"revshare/contexts/finance-core/payout-engine/adapters/redislock"
	stripeadapter "revshare/contexts/finance-core/payout-engine/adapters/stripe"
	payoutapp "revshare/contexts/finance-core/payout-engine/application"
	payoutworkers "revshare/contexts/finance-core/payout-engine/application/workers"
	"revshare/contexts/finance-core/payout-engine/ports"
	revenueledger "revshare/contexts/finance-core/revenue-ledger"
	revenuepostgres "revshare/contexts/finance-core/revenue-ledger/adapters/postgres"
	contributorregistry "revshare/contexts/identity-access/contributor-registry"
	registrypostgres "revshare/contexts/identity-access/contributor-registry/adapters/postgres"
	"revshare/internal/platform/config"
	"revshare/internal/platform/db"
	"revshare/internal/platform/httpserver"
	"revshare/internal/platform/messaging"

	"github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server        *httpserver.Server
	postgres      *db.Postgres
	earningsAudit ledgerworkers.EarningsAuditConsumer
	payoutAudit   payoutworkers.PayoutAuditConsumer
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := contributorregistry.NewModule(contributorregistry.Dependencies{
		Repository: registryRepo,
		Clock:      registrypostgres.SystemClock{},
		IDGen:      registrypostgres.UUIDGenerator{},
		Logger:     logger,
	})

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledgerModule := entitlementledger.NewModule(entitlementledger.Dependencies{
		Repository:   ledgerRepo,
		Contributors: registryModule.Service,
		Publisher:    bus,
		Clock:        ledgerpostgres.SystemClock{},
		IDGen:        ledgerpostgres.UUIDGenerator{},
		Settings: ledgerapp.Settings{
			CommissionPercent:    cfg.Engine.CommissionPercent,
			SupportRatePerMinute: cfg.Engine.SupportRatePerMinute,
		},
		Logger: logger,
	})

	revenueRepo := revenuepostgres.NewRepository(pg.DB, logger)
	revenueModule := revenueledger.NewModule(revenueledger.Dependencies{
		Repository: revenueRepo,
		Clock:      revenuepostgres.SystemClock{},
		IDGen:      revenuepostgres.UUIDGenerator{},
		Logger:     logger,
	})

	payoutRepo := payoutpostgres.NewRepository(pg.DB, logger)
	payoutModule := payoutengine.NewModule(payoutengine.Dependencies{
		Repository: payoutRepo,
		Revenue:    revenueModule.Service,
		Earnings:   payoutRepo,
		Gateway:    buildGateway(cfg, logger),
		Lock:       redislock.New(redisClient, 5*time.Minute, logger),
		Publisher:  bus,
		Clock:      payoutpostgres.SystemClock{},
		IDGen:      payoutpostgres.UUIDGenerator{},
		Settings: payoutapp.Settings{
			DefaultPoolPercent: cfg.Engine.PoolPercent,
			Currency:           cfg.Engine.PayoutCurrency,
		},
		Logger: logger,
	})

	server := httpserver.New(
		registryModule,
		ledgerModule,
		revenueModule,
		payoutModule,
		cfg.AdminToken,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		earningsAudit: ledgerworkers.EarningsAuditConsumer{
			Subscriber:    bus,
			ConsumerGroup: "revshare-earnings-audit-cg",
			Logger:        logger,
		},
		payoutAudit: payoutworkers.PayoutAuditConsumer{
			Subscriber:    bus,
			ConsumerGroup: "revshare-payout-audit-cg",
			Logger:        logger,
		},
		logger: logger,
	}, nil
}

// buildGateway selects the transfer gateway. Without a Stripe key the app
// still runs for local use, issuing recorded no-op transfers.
func buildGateway(cfg config.Config, logger *slog.Logger) ports.TransferGateway {
	if strings.TrimSpace(cfg.StripeSecretKey) == "" {
		logger.Warn("stripe secret key not configured, using recording gateway",
			"event", "bootstrap_gateway_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return payoutmemory.NewGateway()
	}
	return stripeadapter.NewGateway(cfg.StripeSecretKey, logger)
}

// Run starts the audit consumers on the in-process bus, then blocks serving
// HTTP.
func (a *APIApp) Run(ctx context.Context) error {
	if err := a.earningsAudit.Start(ctx); err != nil {
		return err
	}
	if err := a.payoutAudit.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
