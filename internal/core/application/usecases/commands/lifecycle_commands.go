package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MaxPrepMinutes bounds the preparation time a vendor may announce.
	MaxPrepMinutes = 240
)

var (
	ErrVendorAcceptCommandIsNotConstructed = errors.New(
		"VendorAcceptCommand must be created via NewVendorAcceptCommand constructor",
	)
	ErrDriverAcceptCommandIsNotConstructed = errors.New(
		"DriverAcceptCommand must be created via NewDriverAcceptCommand constructor",
	)
	ErrDriverRejectCommandIsNotConstructed = errors.New(
		"DriverRejectCommand must be created via NewDriverRejectCommand constructor",
	)
	ErrMarkReadyCommandIsNotConstructed = errors.New(
		"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
	)
	ErrPickUpCommandIsNotConstructed = errors.New(
		"PickUpCommand must be created via NewPickUpCommand constructor",
	)
	ErrDeliverCommandIsNotConstructed = errors.New(
		"DeliverCommand must be created via NewDeliverCommand constructor",
	)
	ErrCancelCommandIsNotConstructed = errors.New(
		"CancelCommand must be created via NewCancelCommand constructor",
	)
)

// orderAct names an order and the participant acting on it.
type orderAct struct {
	orderID kernel.UUID
	actorID kernel.UUID
}

func newOrderAct(orderID, actorID kernel.UUID, actor string) (orderAct, error) {
	var err error
	if e := orderID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("order", e))
	}
	if e := actorID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause(actor, e))
	}
	return orderAct{orderID: orderID, actorID: actorID}, err
}

func (a orderAct) OrderID() kernel.UUID { return a.orderID }

// VendorAcceptCommand starts preparation. prepMinutes of 0 uses the configured
// default. DELIVERY orders must name the driver who will take them; PICKUP orders must not.
type VendorAcceptCommand struct {
	orderAct
	prepMinutes int
	driverID    *kernel.UUID
	guard       guard.ConstructorGuard
}

func NewVendorAcceptCommand(orderID, vendorID kernel.UUID, prepMinutes int, driverID *kernel.UUID) (VendorAcceptCommand, error) {
	act, err := newOrderAct(orderID, vendorID, "vendor")
	if prepMinutes < 0 || prepMinutes > MaxPrepMinutes {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("prep minutes", prepMinutes, 1, MaxPrepMinutes))
	}
	if driverID != nil {
		if e := driverID.Validate(); e != nil {
			err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("driver", e))
		}
	}
	if err != nil {
		return VendorAcceptCommand{}, err
	}
	return VendorAcceptCommand{
		orderAct:    act,
		prepMinutes: prepMinutes,
		driverID:    driverID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c VendorAcceptCommand) Validate() error {
	return c.guard.Validate(ErrVendorAcceptCommandIsNotConstructed)
}

func (c VendorAcceptCommand) VendorID() kernel.UUID  { return c.actorID }
func (c VendorAcceptCommand) PrepMinutes() int       { return c.prepMinutes }
func (c VendorAcceptCommand) DriverID() *kernel.UUID { return c.driverID }

// DriverAcceptCommand claims a vendor-accepted delivery order from the pool.
type DriverAcceptCommand struct {
	orderAct
	guard guard.ConstructorGuard
}

func NewDriverAcceptCommand(orderID, driverID kernel.UUID) (DriverAcceptCommand, error) {
	act, err := newOrderAct(orderID, driverID, "driver")
	if err != nil {
		return DriverAcceptCommand{}, err
	}
	return DriverAcceptCommand{orderAct: act, guard: guard.NewConstructorGuard()}, nil
}

func (c DriverAcceptCommand) Validate() error {
	return c.guard.Validate(ErrDriverAcceptCommandIsNotConstructed)
}

func (c DriverAcceptCommand) DriverID() kernel.UUID { return c.actorID }

// DriverRejectCommand hands a claimed order back to the pool before pickup.
type DriverRejectCommand struct {
	orderAct
	guard guard.ConstructorGuard
}

func NewDriverRejectCommand(orderID, driverID kernel.UUID) (DriverRejectCommand, error) {
	act, err := newOrderAct(orderID, driverID, "driver")
	if err != nil {
		return DriverRejectCommand{}, err
	}
	return DriverRejectCommand{orderAct: act, guard: guard.NewConstructorGuard()}, nil
}

func (c DriverRejectCommand) Validate() error {
	return c.guard.Validate(ErrDriverRejectCommandIsNotConstructed)
}

func (c DriverRejectCommand) DriverID() kernel.UUID { return c.actorID }

// MarkReadyCommand is sent by the vendor when preparation is finished.
type MarkReadyCommand struct {
	orderAct
	guard guard.ConstructorGuard
}

func NewMarkReadyCommand(orderID, vendorID kernel.UUID) (MarkReadyCommand, error) {
	act, err := newOrderAct(orderID, vendorID, "vendor")
	if err != nil {
		return MarkReadyCommand{}, err
	}
	return MarkReadyCommand{orderAct: act, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}

func (c MarkReadyCommand) VendorID() kernel.UUID { return c.actorID }

// PickUpCommand is sent by the holding driver when leaving the vendor with the order.
type PickUpCommand struct {
	orderAct
	guard guard.ConstructorGuard
}

func NewPickUpCommand(orderID, driverID kernel.UUID) (PickUpCommand, error) {
	act, err := newOrderAct(orderID, driverID, "driver")
	if err != nil {
		return PickUpCommand{}, err
	}
	return PickUpCommand{orderAct: act, guard: guard.NewConstructorGuard()}, nil
}

func (c PickUpCommand) Validate() error {
	return c.guard.Validate(ErrPickUpCommandIsNotConstructed)
}

func (c PickUpCommand) DriverID() kernel.UUID { return c.actorID }

// DeliverCommand completes an order. The actor is the holding driver for DELIVERY
// orders and the vendor, confirming the customer's pickup, for PICKUP orders.
type DeliverCommand struct {
	orderAct
	guard guard.ConstructorGuard
}

func NewDeliverCommand(orderID, actorID kernel.UUID) (DeliverCommand, error) {
	act, err := newOrderAct(orderID, actorID, "actor")
	if err != nil {
		return DeliverCommand{}, err
	}
	return DeliverCommand{orderAct: act, guard: guard.NewConstructorGuard()}, nil
}

func (c DeliverCommand) Validate() error {
	return c.guard.Validate(ErrDeliverCommandIsNotConstructed)
}

func (c DeliverCommand) ActorID() kernel.UUID { return c.actorID }

// CancelCommand ends a non-terminal order. Cancellation is an external trigger
// (customer support, expiry job), so it carries a reason instead of an actor.
type CancelCommand struct {
	orderID kernel.UUID
	reason  string
	guard   guard.ConstructorGuard
}

func NewCancelCommand(orderID kernel.UUID, reason string) (CancelCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelCommand{}, errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return CancelCommand{}, errs.NewValueIsRequiredError("reason")
	}
	return CancelCommand{orderID: orderID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelCommand) Validate() error {
	return c.guard.Validate(ErrCancelCommandIsNotConstructed)
}

func (c CancelCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelCommand) Reason() string       { return c.reason }
