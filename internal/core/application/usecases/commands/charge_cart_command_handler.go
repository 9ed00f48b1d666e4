package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const opChargeCart = "charge cart"

// ChargeCartCommandHandler is the payment gate: it captures the cart total and only then
// turns the cart into a PAID order that is active for the customer and the vendor.
//
// The capture runs before the write. The idempotency key is scoped to the cart's stored
// version, so a retried capture of the same cart returns the first charge instead of
// charging twice. If the write fails the capture is refunded and the cart is written
// once more, which retires the key: the next attempt captures anew rather than
// replaying a charge that was already returned.
//
// Example:
//
//	handler := NewChargeCartCommandHandler(uowFactory, gateway, notifier, ports.SystemClock)
//	cmd, _ := NewChargeCartCommand(orderID, customerID, "tok_visa", tip)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrExternalFailure):
//	    // declined or gateway down; the cart is still NEW and can be charged again
//	case errors.Is(err, errs.ErrConsistencyFailure):
//	    // captured but not recorded; see ConsistencyFailureError.Compensated
//	}
type ChargeCartCommandHandler struct {
	uowFactory CartUoWFactory
	gateway    ports.PaymentGateway
	notifier   ports.Notifier
	clock      ports.Clock
	ledger     services.SummaryLedger
}

func NewChargeCartCommandHandler(
	uowFactory CartUoWFactory,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	clock ports.Clock,
) ChargeCartCommandHandler {
	return ChargeCartCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
		clock:      clock,
		ledger:     services.NewSummaryLedger(),
	}
}

func (h ChargeCartCommandHandler) Handle(ctx context.Context, cmd ChargeCartCommand) error {
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

	cart, err := loadCustomerOrder(ctx, uow.OrderRepository(), cmd.OrderID(), cmd.CustomerID())
	if err != nil {
		return err
	}
	customer, err := uow.CustomerRepository().Get(ctx, cart.CustomerID())
	if err != nil {
		return err
	}
	vendor, err := uow.VendorRepository().Get(ctx, cart.VendorID())
	if err != nil {
		return err
	}

	if err = h.lockAddress(ctx, uow, cart); err != nil {
		return err
	}

	if err = cart.SetTip(cmd.Tip()); err != nil {
		return err
	}
	if err = errors.Join(cart.ValidateCharge(), customer.ValidateCart(cart.ID())); err != nil {
		return err
	}

	charge, err := h.gateway.AuthorizeAndCharge(ctx, ports.ChargeRequest{
		IdempotencyKey: ports.ChargeIdempotencyKey(cart.ID(), cart.Version()),
		OrderID:        cart.ID(),
		CustomerID:     cart.CustomerID(),
		VendorID:       cart.VendorID(),
		PaymentToken:   cmd.PaymentToken(),
		Amount:         cart.ChargeAmount(),
	})
	if err != nil {
		return errs.NewExternalFailureError("payment gateway", err)
	}

	if err = h.record(ctx, uow, cart, customer, vendor, charge); err != nil {
		return h.compensate(context.WithoutCancel(ctx), cart, charge, err)
	}

	notify(ctx, h.notifier, cart, h.clock.Now(), participant.CustomerRole, participant.VendorRole)
	return nil
}

// lockAddress holds the delivery address until the charge commits. An address deleted
// since it was selected fails the charge before anything is captured.
func (h ChargeCartCommandHandler) lockAddress(ctx context.Context, uow CartUoW, cart *order.Order) error {
	addressID := cart.AddressID()
	if addressID == nil {
		return nil
	}
	a, err := uow.AddressRepository().Get(ctx, *addressID)
	if err != nil {
		return err
	}
	return a.ValidateOwner(cart.CustomerID())
}

func (h ChargeCartCommandHandler) record(
	ctx context.Context,
	uow CartUoW,
	cart *order.Order,
	customer *participant.Customer,
	vendor *participant.Vendor,
	charge ports.Charge,
) error {
	if err := cart.Charge(charge.ID, charge.Amount); err != nil {
		return err
	}
	if err := h.ledger.CheckOut(cart, customer, vendor); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, cart); err != nil {
		return err
	}
	if err := uow.CustomerRepository().Update(ctx, customer); err != nil {
		return err
	}
	if err := uow.VendorRepository().Update(ctx, vendor); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// compensate refunds a capture whose order write failed. A conflicting writer that
// already recorded this very charge (a concurrent retry with the same idempotency key)
// owns it, so it is left alone. The refund only counts as compensated once the charge
// key is retired as well.
func (h ChargeCartCommandHandler) compensate(ctx context.Context, cart *order.Order, charge ports.Charge, cause error) error {
	if errors.Is(cause, errs.ErrConcurrentConflict) && h.recordedElsewhere(ctx, cart, charge) {
		return cause
	}

	err := h.gateway.Refund(ctx, ports.RefundRequest{
		IdempotencyKey: ports.RefundIdempotencyKey(charge.ID),
		ChargeID:       charge.ID,
		Amount:         charge.Amount,
	})
	if err != nil {
		return errs.NewConsistencyFailureError(opChargeCart, false, errors.Join(cause, err))
	}
	if err = h.retireAttempt(ctx, cart); err != nil {
		return errs.NewConsistencyFailureError(opChargeCart, false, errors.Join(cause, err))
	}
	return errs.NewConsistencyFailureError(opChargeCart, true, cause)
}

// retireAttempt rewrites the stored cart unchanged. The version bump moves the cart to a
// new charge key. A cart that already left NEW was charged by someone else and keeps
// its version.
func (h ChargeCartCommandHandler) retireAttempt(ctx context.Context, cart *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, cart.ID())
	if err != nil {
		return err
	}
	if current.Disposition() != order.New {
		return nil
	}
	if err = uow.OrderRepository().Update(ctx, current); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h ChargeCartCommandHandler) recordedElsewhere(ctx context.Context, cart *order.Order, charge ports.Charge) bool {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, cart.ID())
	if err != nil {
		return false
	}
	return current.HasCharge() && current.ChargeID() == charge.ID
}
