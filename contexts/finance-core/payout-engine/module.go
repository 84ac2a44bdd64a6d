package payoutengine

import (
	"log/slog"

	httpadapter "revshare/contexts/finance-core/payout-engine/adapters/http"
	"revshare/contexts/finance-core/payout-engine/adapters/memory"
	"revshare/contexts/finance-core/payout-engine/application"
	"revshare/contexts/finance-core/payout-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service

	// In-memory fixtures, populated by NewInMemoryModule only.
	Store    *memory.Store
	Earnings *memory.EarningsStore
	Gateway  *memory.Gateway
	Lock     *memory.Lock
}

type Dependencies struct {
	Repository ports.Repository
	Revenue    ports.RevenueSource
	Earnings   ports.EarningsSource
	Gateway    ports.TransferGateway
	Lock       ports.RunLock
	Publisher  ports.Publisher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Settings   application.Settings
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repository: deps.Repository,
		Revenue:    deps.Revenue,
		Earnings:   deps.Earnings,
		Gateway:    deps.Gateway,
		Lock:       deps.Lock,
		Publisher:  deps.Publisher,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Settings:   deps.Settings,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the module against seedable fixtures. The revenue
// source stays injected so tests can pair it with a real revenue ledger.
func NewInMemoryModule(revenue ports.RevenueSource, settings application.Settings, logger *slog.Logger) Module {
	store := memory.NewStore()
	earnings := memory.NewEarningsStore()
	gateway := memory.NewGateway()
	lock := memory.NewLock()
	module := NewModule(Dependencies{
		Repository: store,
		Revenue:    revenue,
		Earnings:   earnings,
		Gateway:    gateway,
		Lock:       lock,
		Clock:      store,
		IDGen:      store,
		Settings:   settings,
		Logger:     logger,
	})
	module.Store = store
	module.Earnings = earnings
	module.Gateway = gateway
	module.Lock = lock
	return module
}
