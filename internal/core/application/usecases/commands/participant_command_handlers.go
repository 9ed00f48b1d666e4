package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ParticipantCommandHandler registers participants and changes driver status.
type ParticipantCommandHandler struct {
	uowFactory  ParticipantUoWFactory
	statusCache ports.DriverStatusCache
	clock       ports.Clock
}

func NewParticipantCommandHandler(
	uowFactory ParticipantUoWFactory,
	statusCache ports.DriverStatusCache,
	clock ports.Clock,
) ParticipantCommandHandler {
	return ParticipantCommandHandler{
		uowFactory:  uowFactory,
		statusCache: statusCache,
		clock:       clock,
	}
}

// Register creates the participant summary. A driver also gets an empty route, owned
// by the driver's fleet vendor if there is one.
func (h ParticipantCommandHandler) Register(ctx context.Context, cmd RegisterParticipantCommand) error {
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

	var err error
	switch cmd.Role() {
	case participant.CustomerRole:
		var c *participant.Customer
		if c, err = participant.NewCustomer(cmd.ID(), cmd.Name()); err == nil {
			err = uow.CustomerRepository().Add(ctx, c)
		}
	case participant.VendorRole:
		var v *participant.Vendor
		if v, err = participant.NewVendor(cmd.ID(), cmd.Name()); err == nil {
			err = uow.VendorRepository().Add(ctx, v)
		}
	case participant.DriverRole:
		err = h.registerDriver(ctx, uow, cmd)
	default:
		err = errs.NewValueIsInvalidError("role")
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h ParticipantCommandHandler) registerDriver(ctx context.Context, uow ParticipantUoW, cmd RegisterParticipantCommand) error {
	d, err := participant.NewDriver(cmd.ID(), cmd.Name())
	if err != nil {
		return err
	}
	if vendorID := cmd.VendorID(); vendorID != nil {
		if _, err = uow.VendorRepository().Get(ctx, *vendorID); err != nil {
			return err
		}
	}
	r, err := route.NewRoute(kernel.NewUUID(), d.ID(), cmd.VendorID(), h.clock.Now())
	if err != nil {
		return err
	}

	if err = uow.DriverRepository().Add(ctx, d); err != nil {
		return err
	}
	return uow.RouteRepository().Add(ctx, r)
}

// ChangeDriverStatus updates the driver and drops the cached status once committed.
// Orders the driver already holds stay with the driver.
func (h ParticipantCommandHandler) ChangeDriverStatus(ctx context.Context, cmd ChangeDriverStatusCommand) error {
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

	repo := uow.DriverRepository()
	d, err := repo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if err = d.SetStatus(cmd.Status()); err != nil {
		return err
	}
	if err = repo.Update(ctx, d); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.statusCache != nil {
		// a stale entry expires on its own TTL
		_ = h.statusCache.Forget(ctx, d.ID())
	}
	return nil
}
