package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const opCancel = "cancel order"

// CancelCommandHandler ends a non-terminal order.
//
// The order is detached from its route and settled for every participant before the
// commit, so it is off the route by the time the cancel is acknowledged. A captured
// charge is refunded before committing: a failed refund aborts the cancel, while a
// failed commit after a successful refund is a ConsistencyFailureError that needs
// manual reconciliation.
type CancelCommandHandler struct {
	uowFactory LifecycleUoWFactory
	gateway    ports.PaymentGateway
	notifier   ports.Notifier
	clock      ports.Clock
	dispatcher services.RouteDispatcher
	ledger     services.SummaryLedger
}

func NewCancelCommandHandler(
	uowFactory LifecycleUoWFactory,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	clock ports.Clock,
) CancelCommandHandler {
	return CancelCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
		clock:      clock,
		dispatcher: services.NewRouteDispatcher(),
		ledger:     services.NewSummaryLedger(),
	}
}

func (h CancelCommandHandler) Handle(ctx context.Context, cmd CancelCommand) error {
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
	customer, err := uow.CustomerRepository().Get(ctx, o.CustomerID())
	if err != nil {
		return err
	}

	if o.Disposition() == order.New {
		return h.discardCart(ctx, uow, o, customer)
	}

	vendor, err := uow.VendorRepository().Get(ctx, o.VendorID())
	if err != nil {
		return err
	}
	var side driverSide
	if o.DriverID() != nil && o.Disposition().IsRouted() {
		if side, err = loadDriverSide(ctx, uow, *o.DriverID()); err != nil {
			return err
		}
	}

	if err = h.dispatcher.Cancel(o, side.route); err != nil {
		return err
	}
	holders := []participant.OrderHolder{customer, vendor}
	if side.driver != nil {
		holders = append(holders, side.driver)
	}
	if err = h.ledger.Settle(o, holders...); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = uow.CustomerRepository().Update(ctx, customer); err != nil {
		return err
	}
	if err = uow.VendorRepository().Update(ctx, vendor); err != nil {
		return err
	}
	if side.route != nil {
		if err = side.save(ctx, uow); err != nil {
			return err
		}
	}

	refunded := false
	if o.HasCharge() {
		if err = h.gateway.Refund(ctx, ports.RefundRequest{
			IdempotencyKey: ports.RefundIdempotencyKey(o.ChargeID()),
			ChargeID:       o.ChargeID(),
			Amount:         o.AmountPaid(),
		}); err != nil {
			return errs.NewExternalFailureError("payment gateway", err)
		}
		refunded = true
	}

	if err = uow.Commit(ctx); err != nil {
		if refunded {
			return errs.NewConsistencyFailureError(opCancel, false, err)
		}
		return err
	}

	notify(ctx, h.notifier, o, h.clock.Now(),
		participant.CustomerRole, participant.VendorRole, participant.DriverRole)
	return nil
}

func (h CancelCommandHandler) discardCart(
	ctx context.Context,
	uow LifecycleUoW,
	o *order.Order,
	customer *participant.Customer,
) error {
	if err := h.dispatcher.Cancel(o, nil); err != nil {
		return err
	}
	if err := h.ledger.Discard(o, customer); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err := uow.CustomerRepository().Update(ctx, customer); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
