package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetDriverRouteQueryIsNotConstructed = errors.New(
		"GetDriverRouteQuery must be created via NewGetDriverRouteQuery constructor",
	)
)

// GetDriverRouteQuery reads a driver's route with one summary per stop, in visiting order.
type GetDriverRouteQuery struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetDriverRouteQuery(driverID kernel.UUID) (GetDriverRouteQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverRouteQuery{}, err
	}
	return GetDriverRouteQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriverRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverRouteQueryIsNotConstructed)
}

func (q GetDriverRouteQuery) DriverID() kernel.UUID {
	return q.driverID
}

type GetDriverRouteQueryResponse struct {
	ID        kernel.UUID
	DriverID  kernel.UUID
	VendorID  *kernel.UUID
	CreatedAt time.Time
	Stops     []OrderSummary
}
