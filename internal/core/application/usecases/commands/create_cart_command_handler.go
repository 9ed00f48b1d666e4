package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CreateCartCommandHandler opens a cart and records it as the customer's open cart.
type CreateCartCommandHandler struct {
	uowFactory CartUoWFactory
	clock      ports.Clock
}

func NewCreateCartCommandHandler(uowFactory CartUoWFactory, clock ports.Clock) CreateCartCommandHandler {
	return CreateCartCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle fails with a GuardViolationError when the customer already has an open cart
// and with ObjectNotFoundError for an unknown customer or vendor.
func (h CreateCartCommandHandler) Handle(ctx context.Context, cmd CreateCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	first, err := cmd.FirstItem().build()
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	customer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}
	if _, err = uow.VendorRepository().Get(ctx, cmd.VendorID()); err != nil {
		return err
	}

	cart, err := order.NewCart(cmd.OrderID(), cmd.CustomerID(), cmd.VendorID(), cmd.Method(), first, h.clock.Now())
	if err != nil {
		return err
	}
	if err = customer.OpenCart(cart.ID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, cart); err != nil {
		return err
	}
	if err = uow.CustomerRepository().Update(ctx, customer); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
