package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAddLineItemCommandIsNotConstructed = errors.New(
		"AddLineItemCommand must be created via NewAddLineItemCommand constructor",
	)
	ErrRemoveLineItemCommandIsNotConstructed = errors.New(
		"RemoveLineItemCommand must be created via NewRemoveLineItemCommand constructor",
	)
	ErrSelectAddressCommandIsNotConstructed = errors.New(
		"SelectAddressCommand must be created via NewSelectAddressCommand constructor",
	)
)

// cartRef names a cart and the customer acting on it.
type cartRef struct {
	orderID    kernel.UUID
	customerID kernel.UUID
}

func newCartRef(orderID, customerID kernel.UUID) (cartRef, error) {
	var err error
	if e := orderID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("order", e))
	}
	if e := customerID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("customer", e))
	}
	return cartRef{orderID: orderID, customerID: customerID}, err
}

func (r cartRef) OrderID() kernel.UUID    { return r.orderID }
func (r cartRef) CustomerID() kernel.UUID { return r.customerID }

// AddLineItemCommand adds a selection to an open cart.
type AddLineItemCommand struct {
	cartRef
	item  LineItemInput
	guard guard.ConstructorGuard
}

func NewAddLineItemCommand(orderID, customerID kernel.UUID, item LineItemInput) (AddLineItemCommand, error) {
	ref, err := newCartRef(orderID, customerID)
	if err != nil {
		return AddLineItemCommand{}, err
	}
	return AddLineItemCommand{cartRef: ref, item: item, guard: guard.NewConstructorGuard()}, nil
}

func (c AddLineItemCommand) Validate() error {
	return c.guard.Validate(ErrAddLineItemCommandIsNotConstructed)
}

func (c AddLineItemCommand) Item() LineItemInput { return c.item }

// RemoveLineItemCommand removes one line item from an open cart.
type RemoveLineItemCommand struct {
	cartRef
	lineItemID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewRemoveLineItemCommand(orderID, customerID, lineItemID kernel.UUID) (RemoveLineItemCommand, error) {
	ref, err := newCartRef(orderID, customerID)
	if e := lineItemID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("line item", e))
	}
	if err != nil {
		return RemoveLineItemCommand{}, err
	}
	return RemoveLineItemCommand{cartRef: ref, lineItemID: lineItemID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveLineItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveLineItemCommandIsNotConstructed)
}

func (c RemoveLineItemCommand) LineItemID() kernel.UUID { return c.lineItemID }

// SelectAddressCommand sets the delivery destination of an open cart.
type SelectAddressCommand struct {
	cartRef
	addressID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewSelectAddressCommand(orderID, customerID, addressID kernel.UUID) (SelectAddressCommand, error) {
	ref, err := newCartRef(orderID, customerID)
	if e := addressID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("address", e))
	}
	if err != nil {
		return SelectAddressCommand{}, err
	}
	return SelectAddressCommand{cartRef: ref, addressID: addressID, guard: guard.NewConstructorGuard()}, nil
}

func (c SelectAddressCommand) Validate() error {
	return c.guard.Validate(ErrSelectAddressCommandIsNotConstructed)
}

func (c SelectAddressCommand) AddressID() kernel.UUID { return c.addressID }
