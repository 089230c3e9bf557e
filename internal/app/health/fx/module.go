package fx

import (
	"go.uber.org/fx"

	"sitewatch-orchestrator/internal/app/health"
	"sitewatch-orchestrator/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(health.NewHandler)),
)
