package http

import (
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"

	"github.com/labstack/echo/v4"
)

// Server adapts the REST API onto the application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{h: h, logger: logger}
}

// RegisterCustomer handles POST /customers.
func (s *Server) RegisterCustomer(c echo.Context) error {
	return s.register(c, participant.CustomerRole)
}

// RegisterVendor handles POST /vendors.
func (s *Server) RegisterVendor(c echo.Context) error {
	return s.register(c, participant.VendorRole)
}

// RegisterDriver handles POST /drivers.
func (s *Server) RegisterDriver(c echo.Context) error {
	var body NewDriver
	if err := bind(c, &body); err != nil {
		return err
	}

	vendorID, err := kernel.UUIDPtrFromBytes(body.VendorID)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterParticipantCommand(id, participant.DriverRole, body.Name)
	if vendorID != nil {
		cmd, err = commands.NewRegisterFleetDriverCommand(id, body.Name, *vendorID)
	}
	if err != nil {
		return err
	}
	if err := s.h.Participants.Register(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.Bytes()})
}

func (s *Server) register(c echo.Context, role participant.Role) error {
	var body NewParticipant
	if err := bind(c, &body); err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterParticipantCommand(id, role, body.Name)
	if err != nil {
		return err
	}
	if err := s.h.Participants.Register(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.Bytes()})
}

// ChangeDriverStatus handles PUT /drivers/{driverId}/status.
func (s *Server) ChangeDriverStatus(c echo.Context) error {
	driverID, err := pathUUID(c, "driverId")
	if err != nil {
		return err
	}
	var body DriverStatus
	if err := bind(c, &body); err != nil {
		return err
	}
	status, err := participant.ParseDriverStatus(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeDriverStatusCommand(driverID, status)
	if err != nil {
		return err
	}
	if err := s.h.Participants.ChangeDriverStatus(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDriverRoute handles GET /drivers/{driverId}/route.
func (s *Server) GetDriverRoute(c echo.Context) error {
	driverID, err := pathUUID(c, "driverId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetDriverRouteQuery(driverID)
	if err != nil {
		return err
	}

	route, err := s.h.GetDriverRoute.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoute(route))
}

// ListParticipantOrders handles GET /participants/{participantId}/orders.
func (s *Server) ListParticipantOrders(c echo.Context) error {
	participantID, err := pathUUID(c, "participantId")
	if err != nil {
		return err
	}
	completed, err := queryBool(c, "completed")
	if err != nil {
		return err
	}
	query, err := queries.NewListParticipantOrdersQuery(participantID, completed)
	if err != nil {
		return err
	}

	orders, err := s.h.ListParticipantOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummaries(orders))
}

// AddAddress handles POST /customers/{customerId}/addresses.
func (s *Server) AddAddress(c echo.Context) error {
	customerID, err := pathUUID(c, "customerId")
	if err != nil {
		return err
	}
	var body NewAddress
	if err := bind(c, &body); err != nil {
		return err
	}
	fields, err := body.fields()
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewAddAddressCommand(id, customerID, fields)
	if err != nil {
		return err
	}
	if err := s.h.Addresses.Add(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.Bytes()})
}

// EditAddress handles PATCH /customers/{customerId}/addresses/{addressId}.
func (s *Server) EditAddress(c echo.Context) error {
	customerID, addressID, err := s.addressPath(c)
	if err != nil {
		return err
	}
	var body AddressChanges
	if err := bind(c, &body); err != nil {
		return err
	}
	changes, err := body.changes()
	if err != nil {
		return err
	}

	cmd, err := commands.NewEditAddressCommand(addressID, customerID, changes)
	if err != nil {
		return err
	}
	if err := s.h.Addresses.Edit(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAddress handles DELETE /customers/{customerId}/addresses/{addressId}.
func (s *Server) DeleteAddress(c echo.Context) error {
	customerID, addressID, err := s.addressPath(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteAddressCommand(addressID, customerID)
	if err != nil {
		return err
	}
	if err := s.h.Addresses.Delete(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) addressPath(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	customerID, err := pathUUID(c, "customerId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	addressID, err := pathUUID(c, "addressId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return customerID, addressID, nil
}

// CreateCart handles POST /customers/{customerId}/carts.
func (s *Server) CreateCart(c echo.Context) error {
	customerID, err := pathUUID(c, "customerId")
	if err != nil {
		return err
	}
	var body NewCart
	if err := bind(c, &body); err != nil {
		return err
	}
	vendorID, err := kernel.UUIDFromBytes(body.VendorID[:])
	if err != nil {
		return err
	}
	method, err := order.ParseMethod(body.Method)
	if err != nil {
		return err
	}
	first, err := body.Item.input()
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateCartCommand(id, customerID, vendorID, method, first)
	if err != nil {
		return err
	}
	if err := s.h.CreateCart.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.Bytes()})
}

// AddLineItem handles POST /customers/{customerId}/carts/{orderId}/items.
func (s *Server) AddLineItem(c echo.Context) error {
	customerID, orderID, err := s.cartPath(c)
	if err != nil {
		return err
	}
	var body LineItem
	if err := bind(c, &body); err != nil {
		return err
	}
	item, err := body.input()
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddLineItemCommand(orderID, customerID, item)
	if err != nil {
		return err
	}
	if err := s.h.Carts.AddLineItem(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: item.ID.Bytes()})
}

// RemoveLineItem handles DELETE /customers/{customerId}/carts/{orderId}/items/{lineItemId}.
func (s *Server) RemoveLineItem(c echo.Context) error {
	customerID, orderID, err := s.cartPath(c)
	if err != nil {
		return err
	}
	lineItemID, err := pathUUID(c, "lineItemId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveLineItemCommand(orderID, customerID, lineItemID)
	if err != nil {
		return err
	}
	if err := s.h.Carts.RemoveLineItem(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SelectAddress handles PUT /customers/{customerId}/carts/{orderId}/address.
func (s *Server) SelectAddress(c echo.Context) error {
	customerID, orderID, err := s.cartPath(c)
	if err != nil {
		return err
	}
	var body AddressSelection
	if err := bind(c, &body); err != nil {
		return err
	}
	addressID, err := kernel.UUIDFromBytes(body.AddressID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewSelectAddressCommand(orderID, customerID, addressID)
	if err != nil {
		return err
	}
	if err := s.h.Carts.SelectAddress(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChargeCart handles POST /customers/{customerId}/carts/{orderId}/charge.
func (s *Server) ChargeCart(c echo.Context) error {
	customerID, orderID, err := s.cartPath(c)
	if err != nil {
		return err
	}
	var body ChargeRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	tip := kernel.ZeroMoney()
	if body.Tip != "" {
		if tip, err = kernel.MoneyFromString(body.Tip); err != nil {
			return err
		}
	}

	cmd, err := commands.NewChargeCartCommand(orderID, customerID, body.PaymentToken, tip)
	if err != nil {
		return err
	}
	if err := s.h.ChargeCart.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) cartPath(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	customerID, err := pathUUID(c, "customerId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return customerID, orderID, nil
}

// GetOrder handles GET /orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}

// ListOpenOrders handles GET /open-orders.
func (s *Server) ListOpenOrders(c echo.Context) error {
	limit, err := queryInt(c, "limit", defaultOpenOrdersLimit)
	if err != nil {
		return err
	}
	readyBy, err := queryTime(c, "readyBy")
	if err != nil {
		return err
	}
	query, err := queries.NewListOpenOrdersQuery(readyBy, limit)
	if err != nil {
		return err
	}

	orders, err := s.h.ListOpenOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummaries(orders))
}

// VendorAccept handles POST /orders/{orderId}/vendor-accept.
func (s *Server) VendorAccept(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body VendorAccept
	if err := bind(c, &body); err != nil {
		return err
	}
	vendorID, err := kernel.UUIDFromBytes(body.VendorID[:])
	if err != nil {
		return err
	}
	driverID, err := kernel.UUIDPtrFromBytes(body.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewVendorAcceptCommand(orderID, vendorID, body.PrepMinutes, driverID)
	if err != nil {
		return err
	}
	return s.done(c, s.h.VendorAccept.Handle(c.Request().Context(), cmd))
}

// DriverAccept handles POST /orders/{orderId}/driver-accept.
func (s *Server) DriverAccept(c echo.Context) error {
	orderID, driverID, err := s.driverAction(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDriverAcceptCommand(orderID, driverID)
	if err != nil {
		return err
	}
	return s.done(c, s.h.DriverAccept.Handle(c.Request().Context(), cmd))
}

// DriverReject handles POST /orders/{orderId}/driver-reject.
func (s *Server) DriverReject(c echo.Context) error {
	orderID, driverID, err := s.driverAction(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDriverRejectCommand(orderID, driverID)
	if err != nil {
		return err
	}
	return s.done(c, s.h.DriverReject.Handle(c.Request().Context(), cmd))
}

// PickUp handles POST /orders/{orderId}/pickup.
func (s *Server) PickUp(c echo.Context) error {
	orderID, driverID, err := s.driverAction(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewPickUpCommand(orderID, driverID)
	if err != nil {
		return err
	}
	return s.done(c, s.h.PickUp.Handle(c.Request().Context(), cmd))
}

func (s *Server) driverAction(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	var body DriverAction
	if err := bind(c, &body); err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	driverID, err := kernel.UUIDFromBytes(body.DriverID[:])
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, driverID, nil
}

// MarkReady handles POST /orders/{orderId}/ready.
func (s *Server) MarkReady(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body VendorAction
	if err := bind(c, &body); err != nil {
		return err
	}
	vendorID, err := kernel.UUIDFromBytes(body.VendorID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkReadyCommand(orderID, vendorID)
	if err != nil {
		return err
	}
	return s.done(c, s.h.MarkReady.Handle(c.Request().Context(), cmd))
}

// Deliver handles POST /orders/{orderId}/deliver.
func (s *Server) Deliver(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body Deliver
	if err := bind(c, &body); err != nil {
		return err
	}
	actorID, err := kernel.UUIDFromBytes(body.ActorID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeliverCommand(orderID, actorID)
	if err != nil {
		return err
	}
	return s.done(c, s.h.Deliver.Handle(c.Request().Context(), cmd))
}

// Cancel handles POST /orders/{orderId}/cancel.
func (s *Server) Cancel(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body Cancel
	if err := bind(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewCancelCommand(orderID, body.Reason)
	if err != nil {
		return err
	}
	return s.done(c, s.h.Cancel.Handle(c.Request().Context(), cmd))
}

// UpdateSetting handles PUT /settings/{name}.
func (s *Server) UpdateSetting(c echo.Context) error {
	name, err := pathString(c, "name")
	if err != nil {
		return err
	}
	var body SettingChange
	if err := bind(c, &body); err != nil {
		return err
	}
	modifiedBy, err := kernel.UUIDFromBytes(body.ModifiedBy[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateSettingCommand(name, body.NewName, body.Value, modifiedBy)
	if err != nil {
		return err
	}
	return s.done(c, s.h.UpdateSetting.Handle(c.Request().Context(), cmd))
}

// done answers 204 for a command that returned no error.
func (s *Server) done(c echo.Context, err error) error {
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
