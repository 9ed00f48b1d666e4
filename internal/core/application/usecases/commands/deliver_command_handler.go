package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DeliverCommandHandler completes an order. In one commit the order becomes DELIVERED,
// leaves the driver's route and moves from every participant's active set to their history.
type DeliverCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
	dispatcher services.RouteDispatcher
	ledger     services.SummaryLedger
}

func NewDeliverCommandHandler(uowFactory LifecycleUoWFactory, notifier ports.Notifier, clock ports.Clock) DeliverCommandHandler {
	return DeliverCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		dispatcher: services.NewRouteDispatcher(),
		ledger:     services.NewSummaryLedger(),
	}
}

func (h DeliverCommandHandler) Handle(ctx context.Context, cmd DeliverCommand) error {
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
	vendor, err := uow.VendorRepository().Get(ctx, o.VendorID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	var side driverSide
	if o.Method() == order.Delivery {
		if side, err = loadDriverSide(ctx, uow, cmd.ActorID()); err != nil {
			return err
		}
		if err = h.dispatcher.Deliver(o, side.route, cmd.ActorID(), now); err != nil {
			return err
		}
		err = h.ledger.Settle(o, customer, vendor, side.driver)
	} else {
		if err = o.ValidateVendor(cmd.ActorID()); err != nil {
			return err
		}
		if err = h.dispatcher.Deliver(o, nil, kernel.UUID{}, now); err != nil {
			return err
		}
		err = h.ledger.Settle(o, customer, vendor)
	}
	if err != nil {
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

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, o, now, participant.CustomerRole, participant.VendorRole)
	return nil
}
