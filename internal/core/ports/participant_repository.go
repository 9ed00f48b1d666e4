package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
)

// CustomerRepository persists customer order summaries. Update is version checked.
type CustomerRepository interface {
	Add(ctx context.Context, aggregate *participant.Customer) error
	Update(ctx context.Context, aggregate *participant.Customer) error
	Get(ctx context.Context, id kernel.UUID) (*participant.Customer, error)
}

// VendorRepository persists vendor order summaries. Update is version checked.
type VendorRepository interface {
	Add(ctx context.Context, aggregate *participant.Vendor) error
	Update(ctx context.Context, aggregate *participant.Vendor) error
	Get(ctx context.Context, id kernel.UUID) (*participant.Vendor, error)
}

// DriverRepository persists driver order summaries and status. Update is version checked.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *participant.Driver) error
	Update(ctx context.Context, aggregate *participant.Driver) error
	Get(ctx context.Context, id kernel.UUID) (*participant.Driver, error)
}
