package commands

import (
	"context"

	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DriverRejectCommandHandler returns a claimed order to the vendor's pool. The order
// leaves the route, the driver's active set and its driver reference in one commit.
type DriverRejectCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

func NewDriverRejectCommandHandler(
	uowFactory LifecycleUoWFactory,
	notifier ports.Notifier,
	clock ports.Clock,
) DriverRejectCommandHandler {
	return DriverRejectCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h DriverRejectCommandHandler) Handle(ctx context.Context, cmd DriverRejectCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	side, err := loadDriverSide(ctx, uow, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = services.NewRouteDispatcher().Release(o, side.route, side.driver); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = side.save(ctx, uow); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, o, h.clock.Now(), participant.VendorRole)
	return nil
}
