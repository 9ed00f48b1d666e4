package cmd

import (
	"context"
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/payment"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/participantrepo"
	"dispatch/internal/adapters/out/redis"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot owns the outbound adapters and builds every handler from them.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	clock      ports.Clock

	gateway     ports.PaymentGateway
	dispatcher  *notify.Dispatcher
	directory   ports.DriverDirectory
	statusCache ports.DriverStatusCache
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	gateway, err := payment.New(cfg.Payment, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := notify.NewPublisher(ctx, cfg.Notify, logger)
	if err != nil {
		return nil, err
	}

	var (
		directory   ports.DriverDirectory     = participantrepo.NewDriverDirectory(gormDB)
		statusCache ports.DriverStatusCache = redis.NoCache{}
	)
	if client := redis.NewClient(cfg.Redis); client != nil {
		cached := redis.NewCachedDriverDirectory(client, directory, cfg.Redis.TTL, logger)
		directory, statusCache = cached, cached
	}

	return &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:      logger,
		clock:       ports.SystemClock,
		gateway:     gateway,
		dispatcher:  notify.NewDispatcher(publisher, cfg.Notify.Workers, cfg.Notify.Buffer, logger),
		directory:   directory,
		statusCache: statusCache,
	}, nil
}

// Dispatcher delivers notifications in the background; its lifetime is the process's.
func (c *CompositionRoot) Dispatcher() *notify.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) cartUoW() commands.CartUoWFactory {
	return FuncCartUoWFactory(func() commands.CartUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) lifecycleUoW() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) timings() commands.Timings {
	return commands.Timings{Prep: c.cfg.Timings.Prep, DeliveryWindow: c.cfg.Timings.DeliveryWindow}
}

func (c *CompositionRoot) CreateCancelCommandHandler() commands.CancelCommandHandler {
	return commands.NewCancelCommandHandler(c.lifecycleUoW(), c.gateway, c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateExpireCartsCommandHandler() commands.ExpireCartsCommandHandler {
	return commands.NewExpireCartsCommandHandler(c.lifecycleUoW(), c.CreateCancelCommandHandler(), c.clock)
}

func (c *CompositionRoot) CreateListOpenOrdersQueryHandler() queries.ListOpenOrdersQueryHandler {
	return queries.NewListOpenOrdersQueryHandler(c.gormDB)
}

// Handlers builds every use case the HTTP adapter serves.
func (c *CompositionRoot) Handlers() httpin.Handlers {
	participants := FuncParticipantUoWFactory(func() commands.ParticipantUoW { return c.uowFactory.Create() })
	addresses := FuncAddressUoWFactory(func() commands.AddressUoW { return c.uowFactory.Create() })
	settings := FuncSettingUoWFactory(func() commands.SettingUoW { return c.uowFactory.Create() })

	return httpin.Handlers{
		Participants: commands.NewParticipantCommandHandler(participants, c.statusCache, c.clock),
		Addresses:    commands.NewAddressCommandHandler(addresses, c.clock),
		Carts:        commands.NewEditCartCommandHandler(c.cartUoW()),

		CreateCart:    commands.NewCreateCartCommandHandler(c.cartUoW(), c.clock),
		ChargeCart:    commands.NewChargeCartCommandHandler(c.cartUoW(), c.gateway, c.dispatcher, c.clock),
		VendorAccept:  commands.NewVendorAcceptCommandHandler(c.lifecycleUoW(), c.directory, c.dispatcher, c.clock, c.timings()),
		DriverAccept:  commands.NewDriverAcceptCommandHandler(c.lifecycleUoW(), c.directory, c.dispatcher, c.clock),
		DriverReject:  commands.NewDriverRejectCommandHandler(c.lifecycleUoW(), c.dispatcher, c.clock),
		MarkReady:     commands.NewMarkReadyCommandHandler(c.lifecycleUoW(), c.dispatcher, c.clock),
		PickUp:        commands.NewPickUpCommandHandler(c.lifecycleUoW(), c.dispatcher, c.clock),
		Deliver:       commands.NewDeliverCommandHandler(c.lifecycleUoW(), c.dispatcher, c.clock),
		Cancel:        c.CreateCancelCommandHandler(),
		UpdateSetting: commands.NewUpdateSettingCommandHandler(settings, c.clock),

		GetOrder:              queries.NewGetOrderQueryHandler(c.gormDB),
		GetDriverRoute:        queries.NewGetDriverRouteQueryHandler(c.gormDB),
		ListParticipantOrders: queries.NewListParticipantOrdersQueryHandler(c.gormDB),
		ListOpenOrders:        c.CreateListOpenOrdersQueryHandler(),
	}
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.cfg.Jobs,
		c.CreateExpireCartsCommandHandler(),
		c.CreateListOpenOrdersQueryHandler(),
		c.dispatcher,
		c.clock,
		c.logger,
	)
}

type FuncCartUoWFactory func() commands.CartUoW

func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncAddressUoWFactory func() commands.AddressUoW

func (f FuncAddressUoWFactory) Create() commands.AddressUoW {
	return f()
}

type FuncSettingUoWFactory func() commands.SettingUoW

func (f FuncSettingUoWFactory) Create() commands.SettingUoW {
	return f()
}

type FuncParticipantUoWFactory func() commands.ParticipantUoW

func (f FuncParticipantUoWFactory) Create() commands.ParticipantUoW {
	return f()
}
