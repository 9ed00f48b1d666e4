package services

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/pkg/errs"
)

// SummaryLedger moves an order reference between the sets of every participant involved
// in it, as the order enters or leaves a terminal disposition.
type SummaryLedger struct{}

func NewSummaryLedger() SummaryLedger {
	return SummaryLedger{}
}

// CheckOut runs right after a successful charge: the cart becomes an active order for
// both customer and vendor.
func (SummaryLedger) CheckOut(o *order.Order, c *participant.Customer, v *participant.Vendor) error {
	if err := errors.Join(o.Validate(), c.Validate(), v.Validate()); err != nil {
		return err
	}
	if err := errors.Join(validateParty(o, c), validateParty(o, v)); err != nil {
		return err
	}
	if o.Disposition() != order.Paid {
		return errs.NewGuardViolationError(order.GuardDisposition, "order is not paid")
	}
	if err := c.ValidateCart(o.ID()); err != nil {
		return err
	}
	if v.IsActive(o.ID()) {
		return errs.NewGuardViolationError(participant.GuardSummary, "order is already active for vendor")
	}

	return errors.Join(c.CheckOut(o.ID()), v.Activate(o.ID()))
}

// Settle runs once the order reached DELIVERED or CANCELED: every holder still working
// on it moves it to its history. Nil holders are skipped, so the driver may be omitted
// for orders that never had one.
func (SummaryLedger) Settle(o *order.Order, holders ...participant.OrderHolder) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.Disposition().IsTerminal() {
		return errs.NewGuardViolationError(order.GuardDisposition,
			"order is "+o.Disposition().String()+", expected a terminal disposition")
	}

	var err error
	for _, h := range holders {
		if isNilHolder(h) {
			continue
		}
		if !h.IsActive(o.ID()) {
			err = errors.Join(err, errs.NewGuardViolationError(participant.GuardSummary,
				"order is not active for "+h.Role().String()))
		}
	}
	if err != nil {
		return err
	}

	for _, h := range holders {
		if isNilHolder(h) {
			continue
		}
		if err = h.Complete(o.ID()); err != nil {
			return err
		}
	}
	return nil
}

// Discard runs when an unpaid cart is canceled: it goes straight to the customer's history.
func (SummaryLedger) Discard(o *order.Order, c *participant.Customer) error {
	if err := errors.Join(o.Validate(), c.Validate()); err != nil {
		return err
	}
	if err := validateParty(o, c); err != nil {
		return err
	}
	return c.DiscardCart(o.ID())
}

func validateParty(o *order.Order, h participant.OrderHolder) error {
	var owner = o.CustomerID()
	if h.Role() == participant.VendorRole {
		owner = o.VendorID()
	}
	if !owner.IsEqual(h.ID()) {
		return errs.NewValueIsInvalidErrorWithCause(h.Role().String(),
			errors.New("participant is not a party to the order"))
	}
	return nil
}

func isNilHolder(h participant.OrderHolder) bool {
	switch v := h.(type) {
	case nil:
		return true
	case *participant.Customer:
		return v == nil
	case *participant.Vendor:
		return v == nil
	case *participant.Driver:
		return v == nil
	}
	return false
}
