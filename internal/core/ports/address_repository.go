package ports

import (
	"context"

	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
)

// AddressRepository stores the address book. Get locks the address for the rest of the
// unit of work: a charge and an edit or delete of its address serialize on that row.
type AddressRepository interface {
	Add(ctx context.Context, entity *address.Address) error
	Update(ctx context.Context, entity *address.Address) error
	Delete(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*address.Address, error)
}
