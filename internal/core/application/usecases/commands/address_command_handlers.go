package commands

import (
	"context"

	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/ports"
)

// AddressCommandHandler manages the customer address book. Addresses that placed orders
// point at are frozen: editing or deleting them fails with address.ErrAddressInUse.
type AddressCommandHandler struct {
	uowFactory AddressUoWFactory
	clock      ports.Clock
}

func NewAddressCommandHandler(uowFactory AddressUoWFactory, clock ports.Clock) AddressCommandHandler {
	return AddressCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h AddressCommandHandler) Add(ctx context.Context, cmd AddAddressCommand) error {
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

	if _, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID()); err != nil {
		return err
	}

	a, err := address.NewAddress(cmd.AddressID(), cmd.CustomerID(), cmd.Fields(), h.clock.Now())
	if err != nil {
		return err
	}
	if err = uow.AddressRepository().Add(ctx, a); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h AddressCommandHandler) Edit(ctx context.Context, cmd EditAddressCommand) error {
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

	a, referenced, err := h.load(ctx, uow, cmd.addressRef)
	if err != nil {
		return err
	}

	if err = a.Edit(cmd.Changes(), referenced, h.clock.Now()); err != nil {
		return err
	}
	if err = uow.AddressRepository().Update(ctx, a); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h AddressCommandHandler) Delete(ctx context.Context, cmd DeleteAddressCommand) error {
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

	a, referenced, err := h.load(ctx, uow, cmd.addressRef)
	if err != nil {
		return err
	}
	if referenced {
		return address.ErrAddressInUse
	}

	if err = uow.AddressRepository().Delete(ctx, a.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h AddressCommandHandler) load(ctx context.Context, uow AddressUoW, ref addressRef) (*address.Address, bool, error) {
	a, err := uow.AddressRepository().Get(ctx, ref.AddressID())
	if err != nil {
		return nil, false, err
	}
	if err = a.ValidateOwner(ref.CustomerID()); err != nil {
		return nil, false, err
	}

	n, err := uow.OrderRepository().CountByAddress(ctx, a.ID())
	if err != nil {
		return nil, false, err
	}
	return a, n > 0, nil
}
