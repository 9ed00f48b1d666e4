package commands

import (
	"context"

	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"
)

// DriverAcceptCommandHandler lets a driver claim an order from the vendor's pool.
//
// Two drivers racing for the same order both load it at the same version; the order
// write is a compare-and-set on that version, so only the first commit succeeds and
// the other gets a ConcurrentConflictError. A driver loading after the winner committed
// gets the "order already claimed" guard instead.
type DriverAcceptCommandHandler struct {
	uowFactory LifecycleUoWFactory
	directory  ports.DriverDirectory
	notifier   ports.Notifier
	clock      ports.Clock
}

func NewDriverAcceptCommandHandler(
	uowFactory LifecycleUoWFactory,
	directory ports.DriverDirectory,
	notifier ports.Notifier,
	clock ports.Clock,
) DriverAcceptCommandHandler {
	return DriverAcceptCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h DriverAcceptCommandHandler) Handle(ctx context.Context, cmd DriverAcceptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := requireActiveDriver(ctx, h.directory, cmd.DriverID()); err != nil {
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

	side, err := claim(ctx, uow, o, cmd.DriverID())
	if err != nil {
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

	notify(ctx, h.notifier, o, h.clock.Now(), participant.CustomerRole, participant.VendorRole)
	return nil
}
