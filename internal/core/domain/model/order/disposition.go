package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Disposition is the lifecycle state of an order.
//
// State transitions:
//
//	NEW ──> PAID ──> ACCEPTED_BY_VENDOR ──┬──(DELIVERY)──> ACCEPTED_BY_DRIVER ──> READY ──> EN_ROUTE ──> DELIVERED
//	                        ^             │                      │                 │
//	                        └─────────────┼──── driver reject ───┴─────────────────┘
//	                                      └──(PICKUP)───> READY ──> DELIVERED
//
// Every non-terminal state may also move to CANCELED. DELIVERED and CANCELED are terminal.
// Each transition method returns the next state or a GuardViolationError naming the failed
// precondition; it never mutates the receiver.
type Disposition int

const (
	// UnknownDisposition catches uninitialized values.
	UnknownDisposition Disposition = iota
	New
	Paid
	AcceptedByVendor
	AcceptedByDriver
	Ready
	EnRoute
	Delivered
	Canceled
)

// GuardDisposition is the guard name reported when the current disposition forbids a transition.
const GuardDisposition = "disposition"

var dispositionNames = map[Disposition]string{
	New:              "NEW",
	Paid:             "PAID",
	AcceptedByVendor: "ACCEPTED_BY_VENDOR",
	AcceptedByDriver: "ACCEPTED_BY_DRIVER",
	Ready:            "READY",
	EnRoute:          "EN_ROUTE",
	Delivered:        "DELIVERED",
	Canceled:         "CANCELED",
}

// ParseDisposition maps the wire name (e.g. "EN_ROUTE") back to a Disposition.
func ParseDisposition(s string) (Disposition, error) {
	for d, name := range dispositionNames {
		if name == s {
			return d, nil
		}
	}
	return UnknownDisposition, errs.NewValueIsInvalidErrorWithCause(
		"disposition", fmt.Errorf("%q is not a known disposition", s))
}

// Validate rejects UnknownDisposition and out-of-range values, e.g. from a corrupted row.
func (d Disposition) Validate() error {
	if _, ok := dispositionNames[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("disposition", fmt.Errorf("%d is not a valid disposition", d))
	}
	return nil
}

func (d Disposition) String() string {
	if s, ok := dispositionNames[d]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (d Disposition) IsTerminal() bool {
	return d == Delivered || d == Canceled
}

// IsRouted reports whether an order in this state may be a stop of a delivery route.
func (d Disposition) IsRouted() bool {
	return d == AcceptedByDriver || d == Ready || d == EnRoute
}

// Charge moves a cart to PAID.
func (d Disposition) Charge() (Disposition, error) {
	if d != New {
		return UnknownDisposition, unexpected(d, New)
	}
	return Paid, nil
}

// VendorAccept moves a paid order into the vendor's preparation queue.
func (d Disposition) VendorAccept() (Disposition, error) {
	if d != Paid {
		return UnknownDisposition, unexpected(d, Paid)
	}
	return AcceptedByVendor, nil
}

// DriverAccept hands a vendor-accepted delivery order to a driver.
// Any other state means another writer got there first, so the reason is "order not available".
func (d Disposition) DriverAccept(m Method) (Disposition, error) {
	if m != Delivery {
		return UnknownDisposition, errs.NewGuardViolationError("method",
			fmt.Sprintf("%s orders are not delivered by drivers", m))
	}
	if d != AcceptedByVendor {
		return UnknownDisposition, errs.NewGuardViolationError(GuardDisposition,
			fmt.Sprintf("order not available: order is %s", d))
	}
	return AcceptedByDriver, nil
}

// DriverReject returns a claimed order to the assignment pool. Rejection is allowed until pickup.
func (d Disposition) DriverReject() (Disposition, error) {
	if d != AcceptedByDriver && d != Ready {
		return UnknownDisposition, unexpected(d, AcceptedByDriver, Ready)
	}
	return AcceptedByVendor, nil
}

// MarkReady finishes preparation. Pickup orders need only the vendor, delivery orders also need a driver.
func (d Disposition) MarkReady(m Method) (Disposition, error) {
	want := AcceptedByVendor
	if m == Delivery {
		want = AcceptedByDriver
	}
	if d != want {
		return UnknownDisposition, unexpected(d, want)
	}
	return Ready, nil
}

// PickUp starts the delivery trip.
func (d Disposition) PickUp(m Method) (Disposition, error) {
	if m != Delivery {
		return UnknownDisposition, errs.NewGuardViolationError("method",
			fmt.Sprintf("%s orders are not picked up by drivers", m))
	}
	if d != Ready {
		return UnknownDisposition, errs.NewGuardViolationError(GuardDisposition,
			fmt.Sprintf("order is not ready to pick up: order is %s", d))
	}
	return EnRoute, nil
}

// Deliver completes the order: from EN_ROUTE for delivery, from READY for customer pickup.
func (d Disposition) Deliver(m Method) (Disposition, error) {
	want := Ready
	if m == Delivery {
		want = EnRoute
	}
	if d != want {
		return UnknownDisposition, unexpected(d, want)
	}
	return Delivered, nil
}

// Cancel is valid from every non-terminal state.
func (d Disposition) Cancel() (Disposition, error) {
	if d.IsTerminal() {
		return UnknownDisposition, errs.NewGuardViolationError(GuardDisposition,
			fmt.Sprintf("order is already %s", d))
	}
	if err := d.Validate(); err != nil {
		return UnknownDisposition, err
	}
	return Canceled, nil
}

func unexpected(actual Disposition, expected ...Disposition) *errs.GuardViolationError {
	names := make([]string, 0, len(expected))
	for _, e := range expected {
		names = append(names, e.String())
	}
	want := names[0]
	if len(names) > 1 {
		want = fmt.Sprintf("one of %v", names)
	}
	return errs.NewGuardViolationError(GuardDisposition,
		fmt.Sprintf("order is %s, expected %s", actual, want))
}
