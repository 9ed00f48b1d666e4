package http

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
)

// CommandHandler runs one lifecycle command.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// QueryHandler answers one read model query.
type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type ParticipantRegistry interface {
	Register(ctx context.Context, cmd commands.RegisterParticipantCommand) error
	ChangeDriverStatus(ctx context.Context, cmd commands.ChangeDriverStatusCommand) error
}

type AddressBook interface {
	Add(ctx context.Context, cmd commands.AddAddressCommand) error
	Edit(ctx context.Context, cmd commands.EditAddressCommand) error
	Delete(ctx context.Context, cmd commands.DeleteAddressCommand) error
}

type CartEditor interface {
	AddLineItem(ctx context.Context, cmd commands.AddLineItemCommand) error
	RemoveLineItem(ctx context.Context, cmd commands.RemoveLineItemCommand) error
	SelectAddress(ctx context.Context, cmd commands.SelectAddressCommand) error
}

// Handlers is every use case the API exposes.
type Handlers struct {
	Participants ParticipantRegistry
	Addresses    AddressBook
	Carts        CartEditor

	CreateCart    CommandHandler[commands.CreateCartCommand]
	ChargeCart    CommandHandler[commands.ChargeCartCommand]
	VendorAccept  CommandHandler[commands.VendorAcceptCommand]
	DriverAccept  CommandHandler[commands.DriverAcceptCommand]
	DriverReject  CommandHandler[commands.DriverRejectCommand]
	MarkReady     CommandHandler[commands.MarkReadyCommand]
	PickUp        CommandHandler[commands.PickUpCommand]
	Deliver       CommandHandler[commands.DeliverCommand]
	Cancel        CommandHandler[commands.CancelCommand]
	UpdateSetting CommandHandler[commands.UpdateSettingCommand]

	GetOrder              QueryHandler[queries.GetOrderQuery, queries.GetOrderQueryResponse]
	GetDriverRoute        QueryHandler[queries.GetDriverRouteQuery, queries.GetDriverRouteQueryResponse]
	ListParticipantOrders QueryHandler[queries.ListParticipantOrdersQuery, []queries.OrderSummary]
	ListOpenOrders        QueryHandler[queries.ListOpenOrdersQuery, []queries.OrderSummary]
}
