package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// LineItemInput is one menu selection with the price snapshot taken from the vendor's menu.
type LineItemInput struct {
	ID            kernel.UUID
	MenuItemID    kernel.UUID
	BasePrice     kernel.Money
	Modifications []order.Modification
}

func (in LineItemInput) build() (*order.LineItem, error) {
	return order.NewLineItem(in.ID, in.MenuItemID, in.BasePrice, in.Modifications)
}

// loadCustomerOrder hides other customers' orders behind ObjectNotFound.
func loadCustomerOrder(ctx context.Context, repo ports.OrderRepository, orderID, customerID kernel.UUID) (*order.Order, error) {
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CustomerID().IsEqual(customerID) {
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}
	return o, nil
}

// notify fans one committed transition out to the given roles. Roles without a
// participant on the order (a driver on a pickup order) are skipped.
func notify(ctx context.Context, n ports.Notifier, o *order.Order, at time.Time, roles ...participant.Role) {
	if n == nil {
		return
	}
	event := ports.NewOrderEvent(o, at)
	for _, role := range roles {
		if role == participant.DriverRole && event.DriverID == nil {
			continue
		}
		n.OrderStatusChanged(ctx, event, role)
	}
}
