//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"breakd/internal"
	"breakd/internal/controllers"
	"breakd/internal/jobs"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/services"
	"breakd/internal/storage"
	"breakd/internal/structures"
	"breakd/internal/tabs"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewFileStore,
		wire.Bind(new(storage.StoreInterface), new(*storage.FileStore)),
		storage.NewSettingsRepository,
		wire.Bind(new(storage.SettingsRepositoryInterface), new(*storage.SettingsRepository)),
		storage.NewFileManager,

		tabs.NewHub,
		wire.Bind(new(tabs.HubInterface), new(*tabs.Hub)),
		wire.Bind(new(scheduler.DispatcherInterface), new(*tabs.Hub)),
		wire.Bind(new(scheduler.BadgeSinkInterface), new(*tabs.Hub)),

		scheduler.NewSystemClock,
		scheduler.NewDomainGate,
		scheduler.NewScheduler,
		wire.Bind(new(scheduler.SchedulerInterface), new(*scheduler.Scheduler)),
		scheduler.NewBadgePresenter,

		services.NewSettingsService,
		services.NewStatsService,

		controllers.NewMessageController,
		controllers.NewSettingsController,
		controllers.NewStatsController,
		controllers.NewSocketController,
		controllers.NewHealthController,

		jobs.NewRunner,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
