package fx

import (
	"go.uber.org/fx"

	"sitewatch-orchestrator/internal/app/watchlist"
	"sitewatch-orchestrator/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(watchlist.NewHandler)),
)
