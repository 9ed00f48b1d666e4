package queries

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// summaryColumns must stay in the order scanSummary reads them.
const summaryColumns = `
	o.id,
	o.customer_id,
	o.vendor_id,
	o.driver_id,
	o.method,
	o.disposition,
	o.total,
	o.created_at,
	o.estimated_ready_at,
	o.estimated_delivery_at`

type scanner interface {
	Scan(dest ...any) error
}

// summaryRow receives the summary columns, extra holds the destinations of any
// columns selected after them.
type summaryRow struct {
	id, customerID, vendorID uuid.UUID
	driverID                 *uuid.UUID
	method, disposition      string
	total                    decimal.Decimal
	createdAt                time.Time
	readyAt, deliveryAt      *time.Time
}

func (r *summaryRow) scan(s scanner, extra ...any) error {
	dest := []any{
		&r.id,
		&r.customerID,
		&r.vendorID,
		&r.driverID,
		&r.method,
		&r.disposition,
		&r.total,
		&r.createdAt,
		&r.readyAt,
		&r.deliveryAt,
	}
	return s.Scan(append(dest, extra...)...)
}

func (r *summaryRow) toSummary() (OrderSummary, error) {
	var (
		s   OrderSummary
		err error
	)
	if s.ID, err = kernel.UUIDFromBytes(r.id[:]); err != nil {
		return s, err
	}
	if s.CustomerID, err = kernel.UUIDFromBytes(r.customerID[:]); err != nil {
		return s, err
	}
	if s.VendorID, err = kernel.UUIDFromBytes(r.vendorID[:]); err != nil {
		return s, err
	}
	if s.DriverID, err = kernel.UUIDPtrFromBytes(r.driverID); err != nil {
		return s, err
	}
	if s.Method, err = order.ParseMethod(r.method); err != nil {
		return s, err
	}
	if s.Disposition, err = order.ParseDisposition(r.disposition); err != nil {
		return s, err
	}
	if s.Total, err = kernel.NewMoney(r.total); err != nil {
		return s, err
	}
	s.CreatedAt = r.createdAt.UTC()
	s.EstimatedReadyAt = utc(r.readyAt)
	s.EstimatedDeliveryAt = utc(r.deliveryAt)
	return s, nil
}

func scanSummaries(rows interface {
	scanner
	Next() bool
	Err() error
}) ([]OrderSummary, error) {
	out := make([]OrderSummary, 0)
	for rows.Next() {
		var row summaryRow
		if err := row.scan(rows); err != nil {
			return nil, err
		}
		s, err := row.toSummary()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
