package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/pkg/errs"
)

// ErrRouteDriverMismatch is returned when a route is used with a driver that does not own it.
var ErrRouteDriverMismatch = errs.NewValueIsInvalidErrorWithCause("route",
	errors.New("route belongs to another driver"))

// RouteDispatcher keeps an order, the driver's route and the driver's active orders in
// step for every driver-side transition.
//
// Which driver gets an order is decided by the caller (the vendor names one, or a
// driver claims from the pool). The dispatcher only checks the guards and applies the
// paired changes. All checks run before the first mutation so a failed call leaves the
// aggregates untouched.
//
// Business rules:
//   - only an ACTIVE driver receives orders
//   - a vendor's fleet route only carries that vendor's orders
//   - an order is on its driver's route exactly while it is claimed and not yet delivered
//   - a rejection returns the order to the vendor's pool, never drops it
//
// Example usage:
//
//	dispatcher := services.NewRouteDispatcher()
//	if err := dispatcher.Claim(o, driverRoute, driver); err != nil {
//	    return err
//	}
type RouteDispatcher struct{}

func NewRouteDispatcher() RouteDispatcher {
	return RouteDispatcher{}
}

// Claim assigns the order to the driver and appends it to the driver's route.
//
// Returns a GuardViolationError when the driver is inactive, the order is not in the
// pool ("order already claimed", "order not available") or already on the route.
func (RouteDispatcher) Claim(o *order.Order, r *route.Route, d *participant.Driver) error {
	if err := validateRouteOwner(o, r, d); err != nil {
		return err
	}
	if err := d.ValidateAvailable(); err != nil {
		return err
	}
	if err := r.ValidateServes(o.VendorID()); err != nil {
		return err
	}
	if r.Contains(o.ID()) {
		return errs.NewGuardViolationError(route.GuardRoute, "order is already on this route")
	}
	if d.IsActive(o.ID()) {
		return errs.NewGuardViolationError(participant.GuardSummary, "order is already active for driver")
	}

	if err := o.AssignDriver(d.ID()); err != nil {
		return err
	}
	return errors.Join(r.Add(o.ID()), d.Activate(o.ID()))
}

// Release takes a claimed order back from the driver before pickup.
func (RouteDispatcher) Release(o *order.Order, r *route.Route, d *participant.Driver) error {
	if err := validateRouteOwner(o, r, d); err != nil {
		return err
	}
	if err := r.ValidateContains(o.ID()); err != nil {
		return err
	}

	if err := o.ReleaseDriver(d.ID()); err != nil {
		return err
	}
	return errors.Join(r.Remove(o.ID()), d.Release(o.ID()))
}

// PickUp moves a ready order on the driver's route to EN_ROUTE.
func (RouteDispatcher) PickUp(o *order.Order, r *route.Route, driverID kernel.UUID) error {
	if err := errors.Join(o.Validate(), r.Validate()); err != nil {
		return err
	}
	if !r.DriverID().IsEqual(driverID) {
		return ErrRouteDriverMismatch
	}
	if err := r.ValidateContains(o.ID()); err != nil {
		return err
	}
	return o.PickUp(driverID)
}

// Deliver completes a delivery order and takes it off the route. Pickup orders carry no
// route; pass nil for r and a zero driverID.
func (RouteDispatcher) Deliver(o *order.Order, r *route.Route, driverID kernel.UUID, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Method() == order.Pickup {
		return o.Deliver(now)
	}

	if err := r.Validate(); err != nil {
		return err
	}
	if !r.DriverID().IsEqual(driverID) {
		return ErrRouteDriverMismatch
	}
	if err := errors.Join(r.ValidateContains(o.ID()), o.ValidateHeldBy(driverID)); err != nil {
		return err
	}

	if err := o.Deliver(now); err != nil {
		return err
	}
	return r.Remove(o.ID())
}

// Cancel ends the order and detaches it from the route it occupies, if any. r must be
// the holding driver's route when the order has a driver and may be nil otherwise.
func (RouteDispatcher) Cancel(o *order.Order, r *route.Route) error {
	if err := o.Validate(); err != nil {
		return err
	}

	onRoute := o.DriverID() != nil && o.Disposition().IsRouted()
	if onRoute {
		if err := r.Validate(); err != nil {
			return err
		}
		if !r.DriverID().IsEqual(*o.DriverID()) {
			return ErrRouteDriverMismatch
		}
		if err := r.ValidateContains(o.ID()); err != nil {
			return err
		}
	}

	if err := o.Cancel(); err != nil {
		return err
	}
	if onRoute {
		return r.Remove(o.ID())
	}
	return nil
}

func validateRouteOwner(o *order.Order, r *route.Route, d *participant.Driver) error {
	if err := errors.Join(o.Validate(), r.Validate(), d.Validate()); err != nil {
		return err
	}
	if !r.DriverID().IsEqual(d.ID()) {
		return ErrRouteDriverMismatch
	}
	return nil
}
