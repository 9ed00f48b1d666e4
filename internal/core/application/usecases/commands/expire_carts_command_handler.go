package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const abandonedCartReason = "cart abandoned"

// ExpireCartsCommandHandler cancels abandoned carts. Each cart is canceled in its own
// unit of work, so one failing cart does not keep the others alive.
type ExpireCartsCommandHandler struct {
	uowFactory LifecycleUoWFactory
	cancel     CancelCommandHandler
	clock      ports.Clock
}

func NewExpireCartsCommandHandler(
	uowFactory LifecycleUoWFactory,
	cancel CancelCommandHandler,
	clock ports.Clock,
) ExpireCartsCommandHandler {
	return ExpireCartsCommandHandler{
		uowFactory: uowFactory,
		cancel:     cancel,
		clock:      clock,
	}
}

// Handle returns how many carts were canceled. Carts touched concurrently (checked out
// or edited meanwhile) are skipped silently; other failures are joined into the error.
func (h ExpireCartsCommandHandler) Handle(ctx context.Context, cmd ExpireCartsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	stale, err := h.listStale(ctx, cmd)
	if err != nil {
		return 0, err
	}

	var (
		canceled int
		failures error
	)
	for _, cart := range stale {
		cancelCmd, err := NewCancelCommand(cart.ID(), abandonedCartReason)
		if err != nil {
			return canceled, err
		}
		err = h.cancel.Handle(ctx, cancelCmd)
		switch {
		case err == nil:
			canceled++
		case errors.Is(err, errs.ErrConcurrentConflict), errors.Is(err, errs.ErrGuardViolation):
		default:
			failures = errors.Join(failures, err)
		}
	}

	return canceled, failures
}

func (h ExpireCartsCommandHandler) listStale(ctx context.Context, cmd ExpireCartsCommand) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	before := h.clock.Now().Add(-cmd.MaxAge())
	return uow.OrderRepository().ListStale(ctx, order.New, before, cmd.BatchSize())
}
