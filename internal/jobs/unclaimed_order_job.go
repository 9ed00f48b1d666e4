package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// OpenOrderLister lists accepted delivery orders no driver holds.
type OpenOrderLister interface {
	Handle(ctx context.Context, query queries.ListOpenOrdersQuery) ([]queries.OrderSummary, error)
}

type UnclaimedOrderConfig struct {
	Schedule string        `koanf:"schedule"`
	Lead     time.Duration `koanf:"lead"`
	Limit    int           `koanf:"limit"`
}

// UnclaimedOrderJob reminds vendors of delivery orders that will be ready within
// Lead but still have no driver.
type UnclaimedOrderJob struct {
	lister   OpenOrderLister
	notifier ports.Notifier
	clock    ports.Clock
	cfg      UnclaimedOrderConfig
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewUnclaimedOrderJob(
	lister OpenOrderLister,
	notifier ports.Notifier,
	clock ports.Clock,
	cfg UnclaimedOrderConfig,
	logger *slog.Logger,
) *UnclaimedOrderJob {
	return &UnclaimedOrderJob{
		lister:   lister,
		notifier: notifier,
		clock:    clock,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "unclaimed_order_job"),
	}
}

func (j *UnclaimedOrderJob) Start() error {
	if _, err := queries.NewListOpenOrdersQuery(time.Time{}, j.cfg.Limit); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc(j.cfg.Schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Unclaimed order job started", "schedule", j.cfg.Schedule, "lead", j.cfg.Lead)
	return nil
}

func (j *UnclaimedOrderJob) run(ctx context.Context) {
	now := j.clock.Now()
	query, err := queries.NewListOpenOrdersQuery(now.Add(j.cfg.Lead), j.cfg.Limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Unclaimed order job misconfigured", "error", err)
		return
	}

	orders, err := j.lister.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Unclaimed order job failed", "error", err)
		return
	}

	for _, o := range orders {
		j.notifier.OrderStatusChanged(ctx, ports.OrderEvent{
			OrderID:     o.ID,
			CustomerID:  o.CustomerID,
			VendorID:    o.VendorID,
			Method:      o.Method,
			Disposition: o.Disposition,
			OccurredAt:  now,
		}, participant.VendorRole)
	}
	if len(orders) > 0 {
		j.logger.InfoContext(ctx, "Reminded vendors of unclaimed orders", "count", len(orders))
	}
}

func (j *UnclaimedOrderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Unclaimed order job stopped")
}
