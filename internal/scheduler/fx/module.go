package fx

import (
	"go.uber.org/fx"

	"sitewatch-orchestrator/internal/scheduler"
)

var Module = fx.Options(
	fx.Provide(scheduler.NewScheduler),
	fx.Invoke(scheduler.Register),
)
