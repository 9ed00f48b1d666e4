package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Guard names reported by Order operations in addition to GuardDisposition.
const (
	GuardVendor  = "vendor"
	GuardDriver  = "driver"
	GuardCart    = "cart"
	GuardAddress = "address"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewCart or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewCart or RestoreOrder constructor")
)

// Order is the aggregate root of the order lifecycle. It owns its line items, monetary
// totals, disposition and lifecycle timestamps, and refers to its customer, vendor,
// optional driver and delivery address by id.
//
// Order follows these invariants:
//   - subtotal equals the sum of line-item prices at all times
//   - line items can only change while the order is a NEW cart
//   - total is fixed by Charge and never changes afterwards
//   - a driver is present exactly while a delivery order is ACCEPTED_BY_DRIVER, READY,
//     EN_ROUTE or DELIVERED (a CANCELED order keeps whatever it had)
//   - DELIVERED and CANCELED orders are immutable
//
// Every mutating method checks its precondition first and leaves the order untouched
// when it returns an error.
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	vendorID   kernel.UUID
	driverID   *kernel.UUID
	addressID  *kernel.UUID

	method      Method
	disposition Disposition
	lineItems   []*LineItem

	subtotal   kernel.Money
	tip        kernel.Money
	total      kernel.Money
	amountPaid kernel.Money
	chargeID   string

	createdAt           time.Time
	estimatedReadyAt    *time.Time
	actualReadyAt       *time.Time
	estimatedDeliveryAt *time.Time
	actualDeliveryAt    *time.Time

	// rejections counts how often drivers returned the order to the pool.
	rejections int
	// version is the optimistic concurrency token, 0 until first persisted.
	version int64

	guard guard.ConstructorGuard
}

// NewCart creates a NEW order for one customer and one vendor, seeded with its first line item.
//
// Parameters:
//   - id: identity of the order
//   - customerID, vendorID: the two parties the order belongs to
//   - method: Delivery or Pickup
//   - first: the line item that opened the cart
//   - now: creation time
//
// Returns:
//   - *Order: the cart with subtotal equal to first.Price()
//   - error: joined validation errors of every invalid argument
func NewCart(
	id kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	method Method,
	first *LineItem,
	now time.Time,
) (*Order, error) {
	o := &Order{
		disposition: New,
		createdAt:   now.UTC(),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setVendorID(vendorID),
		o.setMethod(method),
		first.Validate(),
	); err != nil {
		return nil, err
	}

	o.lineItems = []*LineItem{first}
	o.subtotal = first.Price()
	return o, nil
}

// Snapshot carries the persisted state of an order into RestoreOrder.
type Snapshot struct {
	ID                  kernel.UUID
	CustomerID          kernel.UUID
	VendorID            kernel.UUID
	DriverID            *kernel.UUID
	AddressID           *kernel.UUID
	Method              Method
	Disposition         Disposition
	LineItems           []*LineItem
	Subtotal            kernel.Money
	Tip                 kernel.Money
	Total               kernel.Money
	AmountPaid          kernel.Money
	ChargeID            string
	CreatedAt           time.Time
	EstimatedReadyAt    *time.Time
	ActualReadyAt       *time.Time
	EstimatedDeliveryAt *time.Time
	ActualDeliveryAt    *time.Time
	Rejections          int
	Version             int64
}

// RestoreOrder rebuilds an order loaded from storage and re-checks the aggregate invariants,
// so a corrupted row surfaces as an error instead of an inconsistent aggregate.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		addressID:           s.AddressID,
		disposition:         s.Disposition,
		tip:                 s.Tip,
		total:               s.Total,
		amountPaid:          s.AmountPaid,
		chargeID:            s.ChargeID,
		createdAt:           s.CreatedAt.UTC(),
		estimatedReadyAt:    s.EstimatedReadyAt,
		actualReadyAt:       s.ActualReadyAt,
		estimatedDeliveryAt: s.EstimatedDeliveryAt,
		actualDeliveryAt:    s.ActualDeliveryAt,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setVendorID(s.VendorID),
		o.setMethod(s.Method),
		s.Disposition.Validate(),
		o.setLineItems(s.LineItems, s.Subtotal),
		o.setDriverID(s.DriverID),
		o.setRejections(s.Rejections),
		o.setVersion(s.Version),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot exports the full state for persistence. RestoreOrder(o.Snapshot()) yields an equal order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                  o.id,
		CustomerID:          o.customerID,
		VendorID:            o.vendorID,
		DriverID:            o.driverID,
		AddressID:           o.addressID,
		Method:              o.method,
		Disposition:         o.disposition,
		LineItems:           o.LineItems(),
		Subtotal:            o.subtotal,
		Tip:                 o.tip,
		Total:               o.total,
		AmountPaid:          o.amountPaid,
		ChargeID:            o.chargeID,
		CreatedAt:           o.createdAt,
		EstimatedReadyAt:    o.estimatedReadyAt,
		ActualReadyAt:       o.actualReadyAt,
		EstimatedDeliveryAt: o.estimatedDeliveryAt,
		ActualDeliveryAt:    o.actualDeliveryAt,
		Rejections:          o.rejections,
		Version:             o.version,
	}
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) CustomerID() kernel.UUID { return o.customerID }
func (o *Order) VendorID() kernel.UUID { return o.vendorID }
func (o *Order) DriverID() *kernel.UUID { return o.driverID }
func (o *Order) AddressID() *kernel.UUID { return o.addressID }
func (o *Order) Method() Method { return o.method }
func (o *Order) Disposition() Disposition { return o.disposition }
func (o *Order) Subtotal() kernel.Money { return o.subtotal }
func (o *Order) Tip() kernel.Money { return o.tip }
func (o *Order) Total() kernel.Money { return o.total }
func (o *Order) AmountPaid() kernel.Money { return o.amountPaid }
func (o *Order) ChargeID() string { return o.chargeID }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) EstimatedReadyAt() *time.Time { return o.estimatedReadyAt }
func (o *Order) ActualReadyAt() *time.Time { return o.actualReadyAt }
func (o *Order) EstimatedDeliveryAt() *time.Time { return o.estimatedDeliveryAt }
func (o *Order) ActualDeliveryAt() *time.Time { return o.actualDeliveryAt }
func (o *Order) Rejections() int { return o.rejections }

// LineItems returns a copy of the item list in insertion order.
func (o *Order) LineItems() []*LineItem {
	return append([]*LineItem(nil), o.lineItems...)
}

// HasCharge reports whether a payment was captured and would need a refund on cancel.
func (o *Order) HasCharge() bool {
	return o.chargeID != ""
}

// Version is the optimistic concurrency token the order was loaded with.
func (o *Order) Version() int64 {
	return o.version
}

// MarkPersisted advances the version after a repository wrote the order successfully.
func (o *Order) MarkPersisted() {
	o.version++
}

// AddLineItem appends an item to the cart and grows the subtotal by its price.
func (o *Order) AddLineItem(item *LineItem) error {
	if err := errors.Join(o.validateEditable(), item.Validate()); err != nil {
		return err
	}
	if o.findLineItem(item.ID()) >= 0 {
		return errs.NewValueIsInvalidErrorWithCause("line item",
			fmt.Errorf("%s is already in the cart", item.ID()))
	}

	o.lineItems = append(o.lineItems, item)
	o.subtotal = o.subtotal.Add(item.Price())
	return nil
}

// RemoveLineItem drops an item from the cart and shrinks the subtotal by its price in the same step.
//
// Returns:
//   - *LineItem: the removed item
//   - error: GuardViolationError outside NEW, ObjectNotFoundError for an unknown item
func (o *Order) RemoveLineItem(itemID kernel.UUID) (*LineItem, error) {
	if err := o.validateEditable(); err != nil {
		return nil, err
	}
	idx := o.findLineItem(itemID)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("line item", itemID.String())
	}

	removed := o.lineItems[idx]
	subtotal, err := o.subtotal.Sub(removed.Price())
	if err != nil {
		return nil, err
	}

	o.lineItems = append(o.lineItems[:idx:idx], o.lineItems[idx+1:]...)
	o.subtotal = subtotal
	return removed, nil
}

// SelectAddress sets the delivery destination of the cart.
func (o *Order) SelectAddress(addressID kernel.UUID) error {
	if err := errors.Join(o.validateEditable(), addressID.Validate()); err != nil {
		return err
	}
	o.addressID = &addressID
	return nil
}

// SetTip records the tip the customer adds on top of the subtotal.
func (o *Order) SetTip(tip kernel.Money) error {
	if err := o.validateEditable(); err != nil {
		return err
	}
	o.tip = tip
	return nil
}

// ChargeAmount is the amount a charge must capture: subtotal plus tip.
func (o *Order) ChargeAmount() kernel.Money {
	return o.subtotal.Add(o.tip)
}

// ValidateCharge checks everything Charge requires except the gateway result, so the
// caller can refuse before any money moves.
func (o *Order) ValidateCharge() error {
	if _, err := o.disposition.Charge(); err != nil {
		return err
	}
	if len(o.lineItems) == 0 {
		return errs.NewGuardViolationError(GuardCart, "cart is empty")
	}
	if o.method == Delivery && o.addressID == nil {
		return errs.NewGuardViolationError(GuardAddress, "delivery order has no address")
	}
	return nil
}

// Charge applies a successful payment: the order becomes PAID and its total is fixed.
//
// Parameters:
//   - chargeID: the gateway's identifier for the capture, needed for refunds
//   - amountPaid: what the gateway reports as captured; must equal ChargeAmount
func (o *Order) Charge(chargeID string, amountPaid kernel.Money) error {
	if err := o.ValidateCharge(); err != nil {
		return err
	}
	if strings.TrimSpace(chargeID) == "" {
		return errs.NewValueIsRequiredError("charge id")
	}
	total := o.ChargeAmount()
	if !amountPaid.IsEqual(total) {
		return errs.NewValueIsInvalidErrorWithCause("amount paid",
			fmt.Errorf("gateway captured %s, order total is %s", amountPaid, total))
	}

	next, err := o.disposition.Charge()
	if err != nil {
		return err
	}

	o.disposition = next
	o.chargeID = chargeID
	o.amountPaid = amountPaid
	o.total = total
	return nil
}

// ValidateVendor rejects callers that are not the order's vendor.
func (o *Order) ValidateVendor(vendorID kernel.UUID) error {
	if !o.vendorID.IsEqual(vendorID) {
		return errs.NewGuardViolationError(GuardVendor, "vendor does not own order")
	}
	return nil
}

// VendorAccept starts preparation. The estimated ready time is now plus prep; delivery
// orders also get an estimated delivery time one delivery window later.
//
// Driver selection for delivery orders is not part of this method: the caller assigns
// the driver with AssignDriver in the same unit of work and discards the order if that fails.
func (o *Order) VendorAccept(vendorID kernel.UUID, prep, deliveryWindow time.Duration, now time.Time) error {
	if err := o.ValidateVendor(vendorID); err != nil {
		return err
	}
	if prep <= 0 {
		return errs.NewValueIsOutOfRangeError("prep time", prep.String(), "1m", "unbounded")
	}
	next, err := o.disposition.VendorAccept()
	if err != nil {
		return err
	}

	ready := now.UTC().Add(prep)
	o.disposition = next
	o.estimatedReadyAt = &ready
	if o.method == Delivery && deliveryWindow > 0 {
		eta := ready.Add(deliveryWindow)
		o.estimatedDeliveryAt = &eta
	}
	return nil
}

// AssignDriver records a driver's claim on a vendor-accepted delivery order.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil {
		return errs.NewGuardViolationError(GuardDriver, "order already claimed")
	}
	next, err := o.disposition.DriverAccept(o.method)
	if err != nil {
		return err
	}

	o.disposition = next
	o.driverID = &driverID
	return nil
}

// ValidateHeldBy rejects drivers other than the one holding the order.
func (o *Order) ValidateHeldBy(driverID kernel.UUID) error {
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewGuardViolationError(GuardDriver, "order does not belong to this driver")
	}
	return nil
}

// ReleaseDriver returns the order to the assignment pool after the holding driver rejected it.
// The pool is unbounded; each release only increments the rejection counter.
func (o *Order) ReleaseDriver(driverID kernel.UUID) error {
	if err := o.ValidateHeldBy(driverID); err != nil {
		return err
	}
	next, err := o.disposition.DriverReject()
	if err != nil {
		return err
	}

	o.disposition = next
	o.driverID = nil
	o.rejections++
	return nil
}

// MarkReady records that preparation is finished.
func (o *Order) MarkReady(now time.Time) error {
	next, err := o.disposition.MarkReady(o.method)
	if err != nil {
		return err
	}

	t := now.UTC()
	o.disposition = next
	o.actualReadyAt = &t
	return nil
}

// PickUp records that the holding driver collected the order.
func (o *Order) PickUp(driverID kernel.UUID) error {
	if err := o.ValidateHeldBy(driverID); err != nil {
		return err
	}
	next, err := o.disposition.PickUp(o.method)
	if err != nil {
		return err
	}

	o.disposition = next
	return nil
}

// Deliver completes the order. For delivery orders the caller must have checked the
// driver with ValidateHeldBy and the route membership.
func (o *Order) Deliver(now time.Time) error {
	next, err := o.disposition.Deliver(o.method)
	if err != nil {
		return err
	}

	t := now.UTC()
	o.disposition = next
	o.actualDeliveryAt = &t
	return nil
}

// Cancel ends a non-terminal order. Refunding a captured charge is the caller's job.
func (o *Order) Cancel() error {
	next, err := o.disposition.Cancel()
	if err != nil {
		return err
	}

	o.disposition = next
	return nil
}

func (o *Order) validateEditable() error {
	if o.disposition != New {
		return errs.NewGuardViolationError(GuardDisposition,
			fmt.Sprintf("cart is no longer editable: order is %s", o.disposition))
	}
	return nil
}

func (o *Order) findLineItem(id kernel.UUID) int {
	for i, li := range o.lineItems {
		if li.ID().IsEqual(id) {
			return i
		}
	}
	return -1
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendor", err)
	}
	o.vendorID = id
	return nil
}

func (o *Order) setMethod(m Method) error {
	if err := m.Validate(); err != nil {
		return err
	}
	o.method = m
	return nil
}

func (o *Order) setLineItems(items []*LineItem, subtotal kernel.Money) error {
	sum := kernel.ZeroMoney()
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return err
		}
		sum = sum.Add(li.Price())
	}
	if !sum.IsEqual(subtotal) {
		return errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("stored %s does not match line items sum %s", subtotal, sum))
	}
	o.lineItems = append([]*LineItem(nil), items...)
	o.subtotal = subtotal
	return nil
}

// setDriverID must run after method and disposition are set.
func (o *Order) setDriverID(driverID *kernel.UUID) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}

	if o.disposition == Canceled {
		o.driverID = driverID
		return nil
	}

	needsDriver := o.method == Delivery &&
		(o.disposition.IsRouted() || o.disposition == Delivered)
	switch {
	case needsDriver && driverID == nil:
		return errs.NewValueIsInvalidErrorWithCause("driver",
			fmt.Errorf("%s %s order must have a driver", o.method, o.disposition))
	case !needsDriver && driverID != nil:
		return errs.NewValueIsInvalidErrorWithCause("driver",
			fmt.Errorf("%s %s order must not have a driver", o.method, o.disposition))
	}

	o.driverID = driverID
	return nil
}

func (o *Order) setRejections(n int) error {
	if n < 0 {
		return errs.NewValueIsOutOfRangeError("rejections", n, 0, "unbounded")
	}
	o.rejections = n
	return nil
}

func (o *Order) setVersion(v int64) error {
	if v < 0 {
		return errs.NewVersionIsInvalidErrorWithCause("order version", fmt.Errorf("%d is negative", v))
	}
	o.version = v
	return nil
}
