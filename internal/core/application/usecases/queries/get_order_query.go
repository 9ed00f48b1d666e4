// Package queries contains read operations for retrieving system state.
// Queries bypass the aggregates and read optimized models straight from the database.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery reads one order with its line items.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	handler := NewGetOrderQueryHandler(db)
//
//	o, err := handler.Handle(ctx, query)
//	fmt.Printf("%s is %s, total %s\n", o.ID, o.Disposition, o.Total)
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID                  kernel.UUID
	CustomerID          kernel.UUID
	VendorID            kernel.UUID
	DriverID            *kernel.UUID
	Method              order.Method
	Disposition         order.Disposition
	Total               kernel.Money
	CreatedAt           time.Time
	EstimatedReadyAt    *time.Time
	EstimatedDeliveryAt *time.Time
}

// GetOrderQueryResponse is the full order view.
type GetOrderQueryResponse struct {
	OrderSummary
	AddressID        *kernel.UUID
	Subtotal         kernel.Money
	Tip              kernel.Money
	AmountPaid       kernel.Money
	ChargeID         string
	ActualReadyAt    *time.Time
	ActualDeliveryAt *time.Time
	Rejections       int
	LineItems        []LineItemView
}

type LineItemView struct {
	ID            kernel.UUID
	MenuItemID    kernel.UUID
	BasePrice     kernel.Money
	Price         kernel.Money
	Modifications []order.Modification
}
