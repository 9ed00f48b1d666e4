package commands

import (
	"context"

	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"
)

// MarkReadyCommandHandler records that the vendor finished preparing an order.
type MarkReadyCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

func NewMarkReadyCommandHandler(uowFactory LifecycleUoWFactory, notifier ports.Notifier, clock ports.Clock) MarkReadyCommandHandler {
	return MarkReadyCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h MarkReadyCommandHandler) Handle(ctx context.Context, cmd MarkReadyCommand) error {
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
	if err = o.ValidateVendor(cmd.VendorID()); err != nil {
		return err
	}

	now := h.clock.Now()
	if err = o.MarkReady(now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, o, now, participant.CustomerRole, participant.DriverRole)
	return nil
}
