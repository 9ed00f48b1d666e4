package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order if it still carries the version it was loaded with and
	// advances the version. A stale writer gets a ConcurrentConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its line items. Returns ObjectNotFoundError if absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListStale returns up to limit orders sitting in disposition since before the
	// given instant, oldest first.
	ListStale(ctx context.Context, disposition order.Disposition, before time.Time, limit int) ([]*order.Order, error)

	// CountByAddress counts placed orders (anything past NEW) delivering to the address.
	CountByAddress(ctx context.Context, addressID kernel.UUID) (int64, error)
}
