package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for delivery routes.
//
// Storage guarantees that an order is a stop of at most one route. Update returns a
// ConcurrentConflictError both for a stale route version and for a stop already held
// by another route.
type RouteRepository interface {
	Add(ctx context.Context, aggregate *route.Route) error
	Update(ctx context.Context, aggregate *route.Route) error
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)

	// GetByDriver returns the driver's route. Returns ObjectNotFoundError if the driver has none.
	GetByDriver(ctx context.Context, driverID kernel.UUID) (*route.Route, error)
}
