package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateCartCommandIsNotConstructed = errors.New(
	"CreateCartCommand must be created via NewCreateCartCommand constructor",
)

// CreateCartCommand opens a cart for a customer at one vendor, seeded with the first selection.
//
// Example:
//
//	cmd, err := NewCreateCartCommand(kernel.NewUUID(), customerID, vendorID, order.Delivery, LineItemInput{
//	    ID:         kernel.NewUUID(),
//	    MenuItemID: menuItemID,
//	    BasePrice:  price,
//	})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type CreateCartCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	vendorID   kernel.UUID
	method     order.Method
	first      LineItemInput

	guard guard.ConstructorGuard
}

func NewCreateCartCommand(
	orderID, customerID, vendorID kernel.UUID,
	method order.Method,
	first LineItemInput,
) (CreateCartCommand, error) {
	cmd := CreateCartCommand{
		first: first,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setVendorID(vendorID),
		cmd.setMethod(method),
	); err != nil {
		return CreateCartCommand{}, err
	}

	return cmd, nil
}

func (c CreateCartCommand) Validate() error {
	return c.guard.Validate(ErrCreateCartCommandIsNotConstructed)
}

func (c CreateCartCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CreateCartCommand) CustomerID() kernel.UUID  { return c.customerID }
func (c CreateCartCommand) VendorID() kernel.UUID    { return c.vendorID }
func (c CreateCartCommand) Method() order.Method     { return c.method }
func (c CreateCartCommand) FirstItem() LineItemInput { return c.first }

func (c *CreateCartCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateCartCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	c.customerID = id
	return nil
}

func (c *CreateCartCommand) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendor", err)
	}
	c.vendorID = id
	return nil
}

func (c *CreateCartCommand) setMethod(m order.Method) error {
	if err := m.Validate(); err != nil {
		return err
	}
	c.method = m
	return nil
}
