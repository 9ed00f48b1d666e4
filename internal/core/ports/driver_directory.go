package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// DriverDirectory answers whether a driver may currently receive orders.
type DriverDirectory interface {
	IsActive(ctx context.Context, driverID kernel.UUID) (bool, error)
}

// DriverStatusCache drops a cached driver status after it changed.
type DriverStatusCache interface {
	Forget(ctx context.Context, driverID kernel.UUID) error
}
