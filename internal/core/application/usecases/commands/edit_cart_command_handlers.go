package commands

import (
	"context"
)

// EditCartCommandHandler applies cart edits. Only the cart's customer may edit it and
// only while it is NEW.
type EditCartCommandHandler struct {
	uowFactory CartUoWFactory
}

func NewEditCartCommandHandler(uowFactory CartUoWFactory) EditCartCommandHandler {
	return EditCartCommandHandler{
		uowFactory: uowFactory,
	}
}

// AddLineItem snapshots the selection's price and adds it to the subtotal.
func (h EditCartCommandHandler) AddLineItem(ctx context.Context, cmd AddLineItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	item, err := cmd.Item().build()
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

	orderRepo := uow.OrderRepository()
	cart, err := loadCustomerOrder(ctx, orderRepo, cmd.OrderID(), cmd.CustomerID())
	if err != nil {
		return err
	}

	if err = cart.AddLineItem(item); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, cart); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// RemoveLineItem drops the item and decrements the subtotal with it.
func (h EditCartCommandHandler) RemoveLineItem(ctx context.Context, cmd RemoveLineItemCommand) error {
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
	cart, err := loadCustomerOrder(ctx, orderRepo, cmd.OrderID(), cmd.CustomerID())
	if err != nil {
		return err
	}

	if _, err = cart.RemoveLineItem(cmd.LineItemID()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, cart); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// SelectAddress points the cart at one of the customer's own addresses.
func (h EditCartCommandHandler) SelectAddress(ctx context.Context, cmd SelectAddressCommand) error {
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
	cart, err := loadCustomerOrder(ctx, orderRepo, cmd.OrderID(), cmd.CustomerID())
	if err != nil {
		return err
	}

	addr, err := uow.AddressRepository().Get(ctx, cmd.AddressID())
	if err != nil {
		return err
	}
	if err = addr.ValidateOwner(cmd.CustomerID()); err != nil {
		return err
	}

	if err = cart.SelectAddress(addr.ID()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, cart); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
