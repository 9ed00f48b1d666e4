package commands

import (
	"context"

	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// PickUpCommandHandler moves a ready order on the driver's route to EN_ROUTE.
type PickUpCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

func NewPickUpCommandHandler(uowFactory LifecycleUoWFactory, notifier ports.Notifier, clock ports.Clock) PickUpCommandHandler {
	return PickUpCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h PickUpCommandHandler) Handle(ctx context.Context, cmd PickUpCommand) error {
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
	r, err := uow.RouteRepository().GetByDriver(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = services.NewRouteDispatcher().PickUp(o, r, cmd.DriverID()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, o, h.clock.Now(), participant.CustomerRole, participant.VendorRole)
	return nil
}
