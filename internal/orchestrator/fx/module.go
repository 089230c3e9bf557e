package fx

import (
	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"sitewatch-orchestrator/cache"
	"sitewatch-orchestrator/config"
	"sitewatch-orchestrator/db"
	"sitewatch-orchestrator/internal/changes"
	"sitewatch-orchestrator/internal/checker"
	"sitewatch-orchestrator/internal/notify"
	"sitewatch-orchestrator/internal/orchestrator"
	"sitewatch-orchestrator/internal/run"
	"sitewatch-orchestrator/internal/store"
)

var Module = fx.Options(
	fx.Provide(
		NewStore,
		NewSweeper,
		NewTracker,
		NewChecker,
		NewDriver,
		NewService,
	),
)

func NewStore(cfg config.Config, logger *zap.SugaredLogger) *store.Store {
	return store.New(cfg.StorePath(), logger)
}

func NewSweeper(st *store.Store, logger *zap.SugaredLogger) *store.Sweeper {
	return store.NewSweeper(st, logger)
}

func NewTracker(cfg config.Config, logger *zap.SugaredLogger) *changes.Tracker {
	return changes.NewTracker(cfg.ChangesPath(), logger)
}

func NewChecker(cfg config.Config, logger *zap.SugaredLogger) checker.Checker {
	return checker.NewExecChecker(checker.ExecCheckerConfig{
		Cmd:     cfg.Checker.Cmd,
		Args:    cfg.Checker.Args,
		WorkDir: cfg.Checker.WorkDir,
		Logger:  logger,
	})
}

func NewDriver(cfg config.Config, logger *zap.SugaredLogger) *run.Driver {
	return run.NewDriver(run.DriverConfig{
		ArtifactDir: cfg.LogDir,
		Timeout:     cfg.Checker.Timeout,
		Logger:      logger,
	})
}

type NewServiceParams struct {
	fx.In

	Cfg     config.Config
	Logger  *zap.SugaredLogger
	Checker checker.Checker
	Driver  *run.Driver
	Store   *store.Store
	Tracker *changes.Tracker

	DB      *sqlx.DB      `optional:"true"`
	Redis   *redis.Client `optional:"true"`
	Channel *amqp.Channel `optional:"true"`
}

func NewService(p NewServiceParams) *orchestrator.Service {
	// Each sink no-ops when its backend is disabled.
	sinks := []orchestrator.Sink{
		db.NewArchiveSink(p.DB, p.Logger),
		cache.NewStatusSink(p.Redis, p.Logger),
		notify.NewEventSink(p.Channel, p.Cfg.RabbitMQ.Exchange, p.Cfg.RabbitMQ.RoutingKey, p.Logger),
	}

	return orchestrator.NewService(orchestrator.ServiceConfig{
		Checker:   p.Checker,
		Driver:    p.Driver,
		Store:     p.Store,
		Tracker:   p.Tracker,
		Sinks:     sinks,
		SitesFile: p.Cfg.SitesFile,
		LockPath:  p.Cfg.LockPath(),
		Logger:    p.Logger,
	})
}
