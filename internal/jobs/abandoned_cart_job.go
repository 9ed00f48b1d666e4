package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// CartExpirer cancels stale carts and reports how many it cancelled.
type CartExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireCartsCommand) (int, error)
}

type AbandonedCartConfig struct {
	Schedule  string        `koanf:"schedule"`
	MaxAge    time.Duration `koanf:"maxAge"`
	BatchSize int           `koanf:"batchSize"`
}

// AbandonedCartJob cancels NEW carts nobody touched for longer than MaxAge.
type AbandonedCartJob struct {
	handler CartExpirer
	cfg     AbandonedCartConfig
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewAbandonedCartJob(handler CartExpirer, cfg AbandonedCartConfig, logger *slog.Logger) *AbandonedCartJob {
	return &AbandonedCartJob{
		handler: handler,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "abandoned_cart_job"),
	}
}

func (j *AbandonedCartJob) Start() error {
	cmd, err := commands.NewExpireCartsCommand(j.cfg.MaxAge, j.cfg.BatchSize)
	if err != nil {
		return err
	}
	if _, err = j.cron.AddFunc(j.cfg.Schedule, func() { j.run(context.Background(), cmd) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Abandoned cart job started", "schedule", j.cfg.Schedule, "max_age", j.cfg.MaxAge)
	return nil
}

func (j *AbandonedCartJob) run(ctx context.Context, cmd commands.ExpireCartsCommand) {
	n, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Abandoned cart job failed", "error", err, "expired", n)
		return
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Expired abandoned carts", "count", n)
	}
}

// Stop waits for a running pass to finish.
func (j *AbandonedCartJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Abandoned cart job stopped")
}
