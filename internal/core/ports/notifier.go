package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
)

// OrderEvent is a snapshot of an order right after a committed transition.
type OrderEvent struct {
	OrderID     kernel.UUID
	CustomerID  kernel.UUID
	VendorID    kernel.UUID
	DriverID    *kernel.UUID
	Method      order.Method
	Disposition order.Disposition
	OccurredAt  time.Time
}

// NewOrderEvent snapshots o. The snapshot is safe to hand to another goroutine.
func NewOrderEvent(o *order.Order, at time.Time) OrderEvent {
	e := OrderEvent{
		OrderID:     o.ID(),
		CustomerID:  o.CustomerID(),
		VendorID:    o.VendorID(),
		Method:      o.Method(),
		Disposition: o.Disposition(),
		OccurredAt:  at.UTC(),
	}
	if d := o.DriverID(); d != nil {
		id := *d
		e.DriverID = &id
	}
	return e
}

// Notifier tells a participant that an order changed. It is fire-and-forget: it has no
// error result and a failed delivery never undoes the transition.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, event OrderEvent, recipient participant.Role)
}
