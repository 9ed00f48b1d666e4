package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/ports"
)

type Config struct {
	Enabled        bool                 `koanf:"enabled"`
	AbandonedCart  AbandonedCartConfig  `koanf:"abandonedCart"`
	UnclaimedOrder UnclaimedOrderConfig `koanf:"unclaimedOrder"`
}

type job interface {
	Start() error
	Stop()
}

// JobManager starts and stops every scheduled job as one unit.
type JobManager struct {
	jobs   []job
	names  []string
	logger *slog.Logger
}

func NewJobManager(
	cfg Config,
	expirer CartExpirer,
	lister OpenOrderLister,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		jobs: []job{
			NewAbandonedCartJob(expirer, cfg.AbandonedCart, logger),
			NewUnclaimedOrderJob(lister, notifier, clock, cfg.UnclaimedOrder, logger),
		},
		names:  []string{"abandoned cart", "unclaimed order"},
		logger: logger,
	}
}

// StartAll starts every job. If one fails, the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", jm.names[i], err)
		}
	}
	jm.logger.Info("Scheduled jobs started", "count", len(jm.jobs))
	return nil
}

func (jm *JobManager) StopAll() {
	for _, j := range jm.jobs {
		j.Stop()
	}
}
