package entitlementledger

import (
	"context"
	"log/slog"

	httpadapter "revshare/contexts/earnings-core/entitlement-ledger/adapters/http"
	"revshare/contexts/earnings-core/entitlement-ledger/adapters/memory"
	"revshare/contexts/earnings-core/entitlement-ledger/application"
	"revshare/contexts/earnings-core/entitlement-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository   ports.Repository
	Contributors ports.ContributorDirectory
	Publisher    ports.Publisher
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Settings     application.Settings
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	contributors := deps.Contributors
	if contributors == nil {
		contributors = noopDirectory{}
	}
	service := application.Service{
		Repository:   deps.Repository,
		Contributors: contributors,
		Publisher:    deps.Publisher,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Settings:     deps.Settings,
		Logger:       deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(contributors ports.ContributorDirectory, settings application.Settings, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:   store,
		Contributors: contributors,
		Clock:        store,
		IDGen:        store,
		Settings:     settings,
		Logger:       logger,
	})
	module.Store = store
	return module
}

type noopDirectory struct{}

func (noopDirectory) Ensure(context.Context, string) error {
	return nil
}
