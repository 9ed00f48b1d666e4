// Package commands contains the operations that change state: one command and one
// handler per lifecycle transition, plus cart, address, setting and participant
// management. Every handler follows the same pattern: validate the command, open a unit
// of work, load the aggregates, apply the domain operation, persist, commit, then
// notify.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces, segregated by the repositories each group of handlers needs.
// ports.UnitOfWork satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	VendorRepoFactory interface {
		VendorRepository() ports.VendorRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	AddressRepoFactory interface {
		AddressRepository() ports.AddressRepository
	}

	SettingRepoFactory interface {
		SettingRepository() ports.SettingRepository
	}

	// CartUoW covers cart assembly and checkout.
	CartUoW interface {
		TxManager
		OrderRepoFactory
		CustomerRepoFactory
		VendorRepoFactory
		AddressRepoFactory
	}

	CartUoWFactory interface {
		Create() CartUoW
	}

	// LifecycleUoW covers every transition after checkout. One transition may write the
	// order, a route and up to three participant summaries.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   r, err := uow.RouteRepository().GetByDriver(ctx, driverID)
	//   // ... transition, then Update each aggregate
	//
	//   err = uow.Commit(ctx)
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		RouteRepoFactory
		CustomerRepoFactory
		VendorRepoFactory
		DriverRepoFactory
		SettingRepoFactory
	}

	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// AddressUoW covers the address book. Orders are read to find references.
	AddressUoW interface {
		TxManager
		AddressRepoFactory
		OrderRepoFactory
		CustomerRepoFactory
	}

	AddressUoWFactory interface {
		Create() AddressUoW
	}

	SettingUoW interface {
		TxManager
		SettingRepoFactory
	}

	SettingUoWFactory interface {
		Create() SettingUoW
	}

	// ParticipantUoW covers registration and driver status. Registering a driver also
	// opens the driver's route.
	ParticipantUoW interface {
		TxManager
		CustomerRepoFactory
		VendorRepoFactory
		DriverRepoFactory
		RouteRepoFactory
	}

	ParticipantUoWFactory interface {
		Create() ParticipantUoW
	}
)
