package route

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GuardRoute is the guard name reported for route membership violations.
const GuardRoute = "route"

var (
	// ErrRouteIsNotConstructed is returned when a Route was not created via NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")
)

// Route is a driver's delivery route: an ordered append/remove queue of the orders the
// driver has claimed and not yet delivered.
//
// A route does not decide which driver gets an order; the vendor names the driver and
// the driver claims. The route only keeps its own queue free of duplicates. That an
// order sits in at most one route system-wide is enforced by storage (a unique order
// reference across all stops), because two routes never share an aggregate boundary.
//
// Business rules:
//   - an order appears at most once in a route
//   - stops keep claim order; re-claiming after a rejection appends at the end
//   - removing an unknown order is a guard violation, never a silent no-op
type Route struct {
	id        kernel.UUID
	driverID  kernel.UUID
	vendorID  *kernel.UUID
	stops     []kernel.UUID
	createdAt time.Time
	version   int64
	guard     guard.ConstructorGuard
}

// NewRoute opens an empty route for a driver. vendorID is set for routes dedicated to
// one vendor and nil for a driver's general route.
//
// Example:
//
//	r, err := route.NewRoute(kernel.NewUUID(), driver.ID(), nil, time.Now())
//	if err != nil {
//	    return err
//	}
//	err = r.Add(orderID)
func NewRoute(id, driverID kernel.UUID, vendorID *kernel.UUID, now time.Time) (*Route, error) {
	r := &Route{
		createdAt: now.UTC(),
		stops:     make([]kernel.UUID, 0),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDriverID(driverID),
		r.setVendorID(vendorID),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRoute rebuilds a persisted route with its stops in position order.
func RestoreRoute(
	id, driverID kernel.UUID,
	vendorID *kernel.UUID,
	stops []kernel.UUID,
	createdAt time.Time,
	version int64,
) (*Route, error) {
	r, err := NewRoute(id, driverID, vendorID, createdAt)
	if err != nil {
		return nil, err
	}

	if version < 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("route version", fmt.Errorf("%d is negative", version))
	}
	r.version = version

	for _, orderID := range stops {
		if err = r.Add(orderID); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r *Route) ID() kernel.UUID {
	return r.id
}

func (r *Route) DriverID() kernel.UUID {
	return r.driverID
}

func (r *Route) VendorID() *kernel.UUID {
	return r.vendorID
}

func (r *Route) CreatedAt() time.Time {
	return r.createdAt
}

// Stops returns a copy of the queued order ids in claim order.
func (r *Route) Stops() []kernel.UUID {
	return append([]kernel.UUID(nil), r.stops...)
}

func (r *Route) Len() int {
	return len(r.stops)
}

// Contains reports whether the order is queued on this route.
func (r *Route) Contains(orderID kernel.UUID) bool {
	return r.indexOf(orderID) >= 0
}

// ValidateContains fails with the guard message drivers see when acting on someone else's order.
func (r *Route) ValidateContains(orderID kernel.UUID) error {
	if !r.Contains(orderID) {
		return errs.NewGuardViolationError(GuardRoute, "order does not belong to this driver")
	}
	return nil
}

// ValidateServes refuses orders of other vendors on a route dedicated to one vendor.
// A general route serves every vendor.
func (r *Route) ValidateServes(vendorID kernel.UUID) error {
	if r.vendorID != nil && !r.vendorID.IsEqual(vendorID) {
		return errs.NewGuardViolationError(GuardRoute, "route is dedicated to another vendor")
	}
	return nil
}

// Add appends an order to the end of the queue.
func (r *Route) Add(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if r.Contains(orderID) {
		return errs.NewGuardViolationError(GuardRoute, "order is already on this route")
	}
	r.stops = append(r.stops, orderID)
	return nil
}

// Remove takes an order off the queue, keeping the order of the remaining stops.
func (r *Route) Remove(orderID kernel.UUID) error {
	idx := r.indexOf(orderID)
	if idx < 0 {
		return errs.NewGuardViolationError(GuardRoute, "order does not belong to this driver")
	}
	r.stops = append(r.stops[:idx:idx], r.stops[idx+1:]...)
	return nil
}

// Version is the optimistic concurrency token the route was loaded with.
func (r *Route) Version() int64 {
	return r.version
}

// MarkPersisted advances the version after a repository wrote the route successfully.
func (r *Route) MarkPersisted() {
	r.version++
}

func (r *Route) indexOf(orderID kernel.UUID) int {
	for i, id := range r.stops {
		if id.IsEqual(orderID) {
			return i
		}
	}
	return -1
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driver", err)
	}
	r.driverID = id
	return nil
}

func (r *Route) setVendorID(id *kernel.UUID) error {
	if id != nil {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("vendor", err)
		}
	}
	r.vendorID = id
	return nil
}
