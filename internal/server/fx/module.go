package fx

import (
	"go.uber.org/fx"

	"sitewatch-orchestrator/internal/server"
)

var ServerOptions = fx.Options(
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
