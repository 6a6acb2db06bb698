package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"breakd/internal/jobs/interfaces"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/storage"
	"breakd/internal/structures"
)

// Runner owns the periodic work: flushing the store to disk and refreshing
// the badge so the minute countdown keeps moving between transitions.
type Runner struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *storage.FileManager
	presenter   *scheduler.BadgePresenter
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (r *Runner) Init() {
	r.cron = gron.New()

	r.cron.AddFunc(gron.Every(r.config.Persistence.SaveInterval), func() {
		if err := r.Persist(); err == nil {
			r.logger.Debugf(providers.TypeApp, "Persisted store to file %s", r.config.Persistence.FilePath)
		}
	})

	r.cron.AddFunc(gron.Every(r.config.Scheduler.BadgeInterval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Scheduler.StoreTimeout)
		defer cancel()
		r.presenter.Refresh(ctx)
	})

	r.cron.Start()
}

func (r *Runner) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Restore loads the last snapshot. A missing file is a first run.
func (r *Runner) Restore() error {
	r.opsMu.Lock()
	defer r.opsMu.Unlock()

	if err := r.fileManager.LoadFromFile(r.config.Persistence.FilePath); err != nil {
		return err
	}
	r.logger.Infof(providers.TypeApp, "Store restored from %s", r.config.Persistence.FilePath)
	return nil
}

func (r *Runner) Persist() error {
	r.opsMu.Lock()
	defer r.opsMu.Unlock()

	start := time.Now()
	err := r.fileManager.SaveToFile(r.config.Persistence.FilePath)
	r.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		r.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewRunner(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, fileManager *storage.FileManager, presenter *scheduler.BadgePresenter) interfaces.RunnerInterface {
	return &Runner{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: fileManager,
		presenter:   presenter,
	}
}
