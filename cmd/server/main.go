package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	cachefx "sitewatch-orchestrator/cache/fx"
	dbfx "sitewatch-orchestrator/db/fx"
	appfx "sitewatch-orchestrator/internal/app/fx"
	healthfx "sitewatch-orchestrator/internal/app/health/fx"
	runsfx "sitewatch-orchestrator/internal/app/runs/fx"
	summaryfx "sitewatch-orchestrator/internal/app/summary/fx"
	watchlistfx "sitewatch-orchestrator/internal/app/watchlist/fx"
	orchestratorfx "sitewatch-orchestrator/internal/orchestrator/fx"
	"sitewatch-orchestrator/internal/pkg/amqpclient"
	routerfx "sitewatch-orchestrator/internal/router/fx"
	schedulerfx "sitewatch-orchestrator/internal/scheduler/fx"
	serverfx "sitewatch-orchestrator/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.Module,
		cachefx.Module,
		fx.Provide(amqpclient.NewAMQP),
		orchestratorfx.Module,
		schedulerfx.Module,
		routerfx.CoreRouterOptions,
		serverfx.ServerOptions,
		healthfx.Module,
		runsfx.Module,
		summaryfx.Module,
		watchlistfx.Module,
	)

	app.Run()
}
