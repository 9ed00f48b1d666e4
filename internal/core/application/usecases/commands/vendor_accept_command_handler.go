package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// VendorAcceptCommandHandler accepts a paid order on behalf of its vendor.
//
// For DELIVERY orders the named driver claims the order in the same unit of work: the
// order never commits as ACCEPTED_BY_VENDOR unless the driver could take it, so a
// failed claim fails the whole acceptance.
type VendorAcceptCommandHandler struct {
	uowFactory LifecycleUoWFactory
	directory  ports.DriverDirectory
	notifier   ports.Notifier
	clock      ports.Clock
	defaults   Timings
}

func NewVendorAcceptCommandHandler(
	uowFactory LifecycleUoWFactory,
	directory ports.DriverDirectory,
	notifier ports.Notifier,
	clock ports.Clock,
	defaults Timings,
) VendorAcceptCommandHandler {
	return VendorAcceptCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		clock:      clock,
		defaults:   defaults,
	}
}

func (h VendorAcceptCommandHandler) Handle(ctx context.Context, cmd VendorAcceptCommand) error {
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

	switch {
	case o.Method() == order.Delivery && cmd.DriverID() == nil:
		return errs.NewValueIsRequiredError("driver")
	case o.Method() == order.Pickup && cmd.DriverID() != nil:
		return errs.NewValueIsInvalidErrorWithCause("driver", errors.New("pickup orders take no driver"))
	}

	timings, err := resolveTimings(ctx, uow.SettingRepository(), cmd.PrepMinutes(), h.defaults)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	if err = o.VendorAccept(cmd.VendorID(), timings.Prep, timings.DeliveryWindow, now); err != nil {
		return err
	}

	var side driverSide
	if o.Method() == order.Delivery {
		if err = requireActiveDriver(ctx, h.directory, *cmd.DriverID()); err != nil {
			return err
		}
		if side, err = claim(ctx, uow, o, *cmd.DriverID()); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if side.route != nil {
		if err = side.save(ctx, uow); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, o, now, participant.CustomerRole, participant.DriverRole)
	return nil
}
