package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction. Every repository it hands out is bound to
// that transaction, so an order, its route and up to three participant summaries
// commit or roll back together.
type UnitOfWork interface {
	// Begin starts the transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	RouteRepository() RouteRepository
	CustomerRepository() CustomerRepository
	VendorRepository() VendorRepository
	DriverRepository() DriverRepository
	AddressRepository() AddressRepository
	SettingRepository() SettingRepository
}
