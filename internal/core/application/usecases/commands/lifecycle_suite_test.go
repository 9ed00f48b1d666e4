package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/adapters/out/payment"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// LifecycleSuite drives whole order lifecycles through the command handlers against
// an in-memory store.
type LifecycleSuite struct {
	suite.Suite

	ctx       context.Context
	now       time.Time
	store     *memStore
	gateway   *MockPaymentGateway
	notifier  *recordingNotifier
	directory *storeDirectory
	cache     *MockDriverStatusCache

	customerID, vendorID, driverD, driverE, addressID kernel.UUID

	people       commands.ParticipantCommandHandler
	addresses    commands.AddressCommandHandler
	createCart   commands.CreateCartCommandHandler
	editCart     commands.EditCartCommandHandler
	chargeCart   commands.ChargeCartCommandHandler
	vendorAccept commands.VendorAcceptCommandHandler
	driverAccept commands.DriverAcceptCommandHandler
	driverReject commands.DriverRejectCommandHandler
	markReady    commands.MarkReadyCommandHandler
	pickUp       commands.PickUpCommandHandler
	deliver      commands.DeliverCommandHandler
	cancel       commands.CancelCommandHandler
	settings     commands.UpdateSettingCommandHandler
	expireCarts  commands.ExpireCartsCommandHandler
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.store = newMemStore()
	s.gateway = new(MockPaymentGateway)
	s.notifier = &recordingNotifier{}
	s.directory = &storeDirectory{store: s.store}
	s.cache = new(MockDriverStatusCache)

	clock := ports.ClockFunc(func() time.Time { return s.now })
	timings := commands.Timings{Prep: 15 * time.Minute, DeliveryWindow: 25 * time.Minute}

	s.people = commands.NewParticipantCommandHandler(s.store.people(), s.cache, clock)
	s.addresses = commands.NewAddressCommandHandler(s.store.addresses(), clock)
	s.createCart = commands.NewCreateCartCommandHandler(s.store.cart(), clock)
	s.editCart = commands.NewEditCartCommandHandler(s.store.cart())
	s.chargeCart = commands.NewChargeCartCommandHandler(s.store.cart(), s.gateway, s.notifier, clock)
	s.vendorAccept = commands.NewVendorAcceptCommandHandler(s.store.lifecycle(), s.directory, s.notifier, clock, timings)
	s.driverAccept = commands.NewDriverAcceptCommandHandler(s.store.lifecycle(), s.directory, s.notifier, clock)
	s.driverReject = commands.NewDriverRejectCommandHandler(s.store.lifecycle(), s.notifier, clock)
	s.markReady = commands.NewMarkReadyCommandHandler(s.store.lifecycle(), s.notifier, clock)
	s.pickUp = commands.NewPickUpCommandHandler(s.store.lifecycle(), s.notifier, clock)
	s.deliver = commands.NewDeliverCommandHandler(s.store.lifecycle(), s.notifier, clock)
	s.cancel = commands.NewCancelCommandHandler(s.store.lifecycle(), s.gateway, s.notifier, clock)
	s.settings = commands.NewUpdateSettingCommandHandler(s.store.settings(), clock)
	s.expireCarts = commands.NewExpireCartsCommandHandler(s.store.lifecycle(), s.cancel, clock)

	s.customerID = s.register(participant.CustomerRole, "Ada")
	s.vendorID = s.register(participant.VendorRole, "Noodle Bar")
	s.driverD = s.register(participant.DriverRole, "Dana")
	s.driverE = s.register(participant.DriverRole, "Eli")

	s.addressID = kernel.NewUUID()
	cmd, err := commands.NewAddAddressCommand(s.addressID, s.customerID, address.Fields{
		Street: "1 Main St", City: "Springfield", Zip: "62701",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.addresses.Add(s.ctx, cmd))
}

func (s *LifecycleSuite) register(role participant.Role, name string) kernel.UUID {
	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterParticipantCommand(id, role, name)
	s.Require().NoError(err)
	s.Require().NoError(s.people.Register(s.ctx, cmd))
	return id
}

func (s *LifecycleSuite) money(v string) kernel.Money {
	m, err := kernel.MoneyFromString(v)
	s.Require().NoError(err)
	return m
}

// newCart opens a cart with one $10 item carrying a $2 modification.
func (s *LifecycleSuite) newCart(method order.Method) kernel.UUID {
	extra, err := order.NewModification("extras", order.Option{Name: "cheese", Price: s.money("2.00")})
	s.Require().NoError(err)

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateCartCommand(orderID, s.customerID, s.vendorID, method, commands.LineItemInput{
		ID:            kernel.NewUUID(),
		MenuItemID:    kernel.NewUUID(),
		BasePrice:     s.money("10.00"),
		Modifications: []order.Modification{extra},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.createCart.Handle(s.ctx, cmd))

	if method == order.Delivery {
		sel, err := commands.NewSelectAddressCommand(orderID, s.customerID, s.addressID)
		s.Require().NoError(err)
		s.Require().NoError(s.editCart.SelectAddress(s.ctx, sel))
	}
	return orderID
}

func (s *LifecycleSuite) expectCharge(orderID kernel.UUID, amount string) {
	key := ports.ChargeIdempotencyKey(orderID, s.order(orderID).Version())
	s.gateway.On("AuthorizeAndCharge", mock.Anything, mock.MatchedBy(func(req ports.ChargeRequest) bool {
		return req.OrderID.IsEqual(orderID) && req.IdempotencyKey == key
	})).Return(ports.Charge{ID: "ch_" + orderID.String(), Amount: s.money(amount)}, nil).Once()
}

func (s *LifecycleSuite) charge(orderID kernel.UUID) error {
	cmd, err := commands.NewChargeCartCommand(orderID, s.customerID, "tok_visa", kernel.ZeroMoney())
	s.Require().NoError(err)
	return s.chargeCart.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) paid(method order.Method) kernel.UUID {
	orderID := s.newCart(method)
	s.expectCharge(orderID, "12.00")
	s.Require().NoError(s.charge(orderID))
	return orderID
}

func (s *LifecycleSuite) acceptByVendor(orderID kernel.UUID, prep int, driverID *kernel.UUID) error {
	cmd, err := commands.NewVendorAcceptCommand(orderID, s.vendorID, prep, driverID)
	s.Require().NoError(err)
	return s.vendorAccept.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) claimedBy(driverID kernel.UUID) kernel.UUID {
	orderID := s.paid(order.Delivery)
	s.Require().NoError(s.acceptByVendor(orderID, 20, &driverID))
	return orderID
}

func (s *LifecycleSuite) acceptByDriver(orderID, driverID kernel.UUID) error {
	cmd, err := commands.NewDriverAcceptCommand(orderID, driverID)
	s.Require().NoError(err)
	return s.driverAccept.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) rejectByDriver(orderID, driverID kernel.UUID) error {
	cmd, err := commands.NewDriverRejectCommand(orderID, driverID)
	s.Require().NoError(err)
	return s.driverReject.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) ready(orderID kernel.UUID) error {
	cmd, err := commands.NewMarkReadyCommand(orderID, s.vendorID)
	s.Require().NoError(err)
	return s.markReady.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) pickedUp(orderID, driverID kernel.UUID) error {
	cmd, err := commands.NewPickUpCommand(orderID, driverID)
	s.Require().NoError(err)
	return s.pickUp.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) delivered(orderID, actorID kernel.UUID) error {
	cmd, err := commands.NewDeliverCommand(orderID, actorID)
	s.Require().NoError(err)
	return s.deliver.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) canceled(orderID kernel.UUID) error {
	cmd, err := commands.NewCancelCommand(orderID, "customer request")
	s.Require().NoError(err)
	return s.cancel.Handle(s.ctx, cmd)
}

func (s *LifecycleSuite) order(id kernel.UUID) *order.Order {
	o, err := s.store.Create().OrderRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	return o
}

func (s *LifecycleSuite) routeOf(driverID kernel.UUID) *route.Route {
	r, err := s.store.Create().RouteRepository().GetByDriver(s.ctx, driverID)
	s.Require().NoError(err)
	return r
}

func (s *LifecycleSuite) customer() *participant.Customer {
	c, err := s.store.Create().CustomerRepository().Get(s.ctx, s.customerID)
	s.Require().NoError(err)
	return c
}

func (s *LifecycleSuite) vendor() *participant.Vendor {
	v, err := s.store.Create().VendorRepository().Get(s.ctx, s.vendorID)
	s.Require().NoError(err)
	return v
}

func (s *LifecycleSuite) driver(id kernel.UUID) *participant.Driver {
	d, err := s.store.Create().DriverRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	return d
}

func (s *LifecycleSuite) requireGuard(err error, reason string) {
	var guardErr *errs.GuardViolationError
	s.Require().ErrorAs(err, &guardErr)
	s.Contains(guardErr.Reason, reason)
}

func (s *LifecycleSuite) TestChargeMovesCartToActive() {
	orderID := s.newCart(order.Delivery)
	s.Equal("12.00", s.order(orderID).Subtotal().String())
	s.expectCharge(orderID, "12.00")

	s.Require().NoError(s.charge(orderID))

	o := s.order(orderID)
	s.Equal(order.Paid, o.Disposition())
	s.Equal("12.00", o.Total().String())
	s.Equal("ch_"+orderID.String(), o.ChargeID())
	s.Nil(s.customer().Cart())
	s.True(s.customer().IsActive(orderID))
	s.True(s.vendor().IsActive(orderID))
	s.ElementsMatch([]participant.Role{participant.CustomerRole, participant.VendorRole}, s.notifier.roles(orderID))
	s.gateway.AssertExpectations(s.T())
}

func (s *LifecycleSuite) TestVendorAcceptAssignsNamedDriver() {
	orderID := s.paid(order.Delivery)

	s.Require().NoError(s.acceptByVendor(orderID, 20, &s.driverD))

	o := s.order(orderID)
	s.Equal(order.AcceptedByDriver, o.Disposition())
	s.True(o.DriverID().IsEqual(s.driverD))
	s.Require().NotNil(o.EstimatedReadyAt())
	s.Equal(s.now.Add(20*time.Minute), *o.EstimatedReadyAt())
	s.Equal(s.now.Add(45*time.Minute), *o.EstimatedDeliveryAt())
	s.Equal([]kernel.UUID{orderID}, s.routeOf(s.driverD).Stops())
	s.True(s.driver(s.driverD).IsActive(orderID))
}

func (s *LifecycleSuite) TestDriverRejectReturnsOrderToPool() {
	orderID := s.claimedBy(s.driverD)

	s.Require().NoError(s.rejectByDriver(orderID, s.driverD))

	o := s.order(orderID)
	s.Equal(order.AcceptedByVendor, o.Disposition())
	s.Nil(o.DriverID())
	s.Equal(1, o.Rejections())
	s.Equal(0, s.routeOf(s.driverD).Len())
	s.Empty(s.driver(s.driverD).ActiveOrders())

	s.Require().NoError(s.acceptByDriver(orderID, s.driverE))
	s.Equal([]kernel.UUID{orderID}, s.routeOf(s.driverE).Stops())
}

func (s *LifecycleSuite) TestConcurrentClaimsHaveOneWinner() {
	orderID := s.claimedBy(s.driverD)
	s.Require().NoError(s.rejectByDriver(orderID, s.driverD))

	var second error
	s.store.beforeCommit = func() {
		second = s.acceptByDriver(orderID, s.driverE)
	}
	first := s.acceptByDriver(orderID, s.driverD)

	s.Require().NoError(second)
	s.Require().ErrorIs(first, errs.ErrConcurrentConflict)

	o := s.order(orderID)
	s.True(o.DriverID().IsEqual(s.driverE))
	s.Equal([]kernel.UUID{orderID}, s.routeOf(s.driverE).Stops())
	s.Equal(0, s.routeOf(s.driverD).Len())
	s.Empty(s.driver(s.driverD).ActiveOrders())

	late := s.acceptByDriver(orderID, s.driverD)
	s.requireGuard(late, "order already claimed")
}

func (s *LifecycleSuite) TestCancelEnRouteThenDeliverFails() {
	orderID := s.claimedBy(s.driverD)
	s.Require().NoError(s.ready(orderID))
	s.Require().NoError(s.pickedUp(orderID, s.driverD))
	s.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(req ports.RefundRequest) bool {
		return req.IdempotencyKey == ports.RefundIdempotencyKey("ch_"+orderID.String()) &&
			req.ChargeID == "ch_"+orderID.String() &&
			req.Amount.IsEqual(s.money("12.00"))
	})).Return(nil).Once()

	s.Require().NoError(s.canceled(orderID))

	s.Equal(order.Canceled, s.order(orderID).Disposition())
	s.Equal(0, s.routeOf(s.driverD).Len())
	for _, h := range []participant.OrderHolder{s.customer(), s.vendor(), s.driver(s.driverD)} {
		s.Empty(h.ActiveOrders(), h.Role().String())
		s.Equal([]kernel.UUID{orderID}, h.OrderHistory(), h.Role().String())
	}

	err := s.delivered(orderID, s.driverD)
	s.Require().ErrorIs(err, errs.ErrGuardViolation)
	s.gateway.AssertExpectations(s.T())
}

func (s *LifecycleSuite) TestFleetDriverServesOnlyItsVendor() {
	fleetID := kernel.NewUUID()
	cmd, err := commands.NewRegisterFleetDriverCommand(fleetID, "Fay", s.vendorID)
	s.Require().NoError(err)
	s.Require().NoError(s.people.Register(s.ctx, cmd))
	s.True(s.routeOf(fleetID).VendorID().IsEqual(s.vendorID))

	otherVendor := s.register(participant.VendorRole, "Taco Stand")
	strangerID := kernel.NewUUID()
	cmd, err = commands.NewRegisterFleetDriverCommand(strangerID, "Gus", otherVendor)
	s.Require().NoError(err)
	s.Require().NoError(s.people.Register(s.ctx, cmd))

	orderID := s.claimedBy(s.driverD)
	s.Require().NoError(s.rejectByDriver(orderID, s.driverD))

	s.requireGuard(s.acceptByDriver(orderID, strangerID), "route is dedicated to another vendor")
	s.Require().NoError(s.acceptByDriver(orderID, fleetID))
	s.Equal([]kernel.UUID{orderID}, s.routeOf(fleetID).Stops())
}

func (s *LifecycleSuite) TestFleetDriverNeedsKnownVendor() {
	cmd, err := commands.NewRegisterFleetDriverCommand(kernel.NewUUID(), "Hal", kernel.NewUUID())
	s.Require().NoError(err)

	err = s.people.Register(s.ctx, cmd)

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *LifecycleSuite) TestDeliveryEndsInEveryHistory() {
	orderID := s.claimedBy(s.driverD)
	s.Require().NoError(s.ready(orderID))
	s.Require().NoError(s.pickedUp(orderID, s.driverD))
	s.notifier.reset()

	s.Require().NoError(s.delivered(orderID, s.driverD))

	o := s.order(orderID)
	s.Equal(order.Delivered, o.Disposition())
	s.NotNil(o.ActualDeliveryAt())
	s.Equal(0, s.routeOf(s.driverD).Len())
	for _, h := range []participant.OrderHolder{s.customer(), s.vendor(), s.driver(s.driverD)} {
		s.Empty(h.ActiveOrders(), h.Role().String())
		s.Equal([]kernel.UUID{orderID}, h.OrderHistory(), h.Role().String())
	}
	s.ElementsMatch([]participant.Role{participant.CustomerRole, participant.VendorRole}, s.notifier.roles(orderID))
}

func (s *LifecycleSuite) TestPickupOrderSkipsDriverStates() {
	orderID := s.paid(order.Pickup)
	s.Require().NoError(s.acceptByVendor(orderID, 10, nil))
	s.Require().NoError(s.ready(orderID))

	s.Require().NoError(s.delivered(orderID, s.vendorID))

	s.Equal(order.Delivered, s.order(orderID).Disposition())
	s.Equal([]kernel.UUID{orderID}, s.customer().OrderHistory())
	s.Equal([]kernel.UUID{orderID}, s.vendor().OrderHistory())
}

func (s *LifecycleSuite) TestChargeDeclinedLeavesCartChargeable() {
	orderID := s.newCart(order.Pickup)
	s.gateway.On("AuthorizeAndCharge", mock.Anything, mock.Anything).
		Return(ports.Charge{}, ports.ErrPaymentDeclined).Once()

	err := s.charge(orderID)

	s.Require().ErrorIs(err, errs.ErrExternalFailure)
	s.Require().ErrorIs(err, ports.ErrPaymentDeclined)
	s.Equal(order.New, s.order(orderID).Disposition())
	s.True(s.customer().Cart().IsEqual(orderID))

	s.expectCharge(orderID, "12.00")
	s.Require().NoError(s.charge(orderID))
	s.Equal(order.Paid, s.order(orderID).Disposition())
}

func (s *LifecycleSuite) TestChargeRechecksDeliveryAddress() {
	orderID := s.newCart(order.Delivery)
	del, err := commands.NewDeleteAddressCommand(s.addressID, s.customerID)
	s.Require().NoError(err)
	s.Require().NoError(s.addresses.Delete(s.ctx, del))

	err = s.charge(orderID)

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
	s.Equal(order.New, s.order(orderID).Disposition())
	s.gateway.AssertNotCalled(s.T(), "AuthorizeAndCharge", mock.Anything, mock.Anything)
}

func (s *LifecycleSuite) TestChargeIsNeverAppliedTwice() {
	orderID := s.paid(order.Pickup)

	err := s.charge(orderID)

	s.Require().ErrorIs(err, errs.ErrGuardViolation)
	s.gateway.AssertNumberOfCalls(s.T(), "AuthorizeAndCharge", 1)
}

func (s *LifecycleSuite) TestChargeWriteFailureRefunds() {
	orderID := s.newCart(order.Pickup)
	s.expectCharge(orderID, "12.00")
	s.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(req ports.RefundRequest) bool {
		return req.ChargeID == "ch_"+orderID.String()
	})).Return(nil).Once()
	s.store.failNextCommit = errors.New("connection reset")

	err := s.charge(orderID)

	var consistency *errs.ConsistencyFailureError
	s.Require().ErrorAs(err, &consistency)
	s.True(consistency.Compensated)
	s.Equal(order.New, s.order(orderID).Disposition())
	s.gateway.AssertExpectations(s.T())
}

func (s *LifecycleSuite) TestChargeRetryAfterRefundCapturesAnew() {
	clock := ports.ClockFunc(func() time.Time { return s.now })
	gateway := payment.NewSandboxGateway()
	charge := commands.NewChargeCartCommandHandler(s.store.cart(), gateway, s.notifier, clock)
	cancel := commands.NewCancelCommandHandler(s.store.lifecycle(), gateway, s.notifier, clock)
	orderID := s.newCart(order.Pickup)
	versionBefore := s.order(orderID).Version()

	first, err := commands.NewChargeCartCommand(orderID, s.customerID, "tok_visa", kernel.ZeroMoney())
	s.Require().NoError(err)
	s.store.failNextCommit = errors.New("connection reset")

	err = charge.Handle(s.ctx, first)

	var consistency *errs.ConsistencyFailureError
	s.Require().ErrorAs(err, &consistency)
	s.True(consistency.Compensated)
	s.True(gateway.Refunded(ports.RefundIdempotencyKey("ch_sandbox_1")))
	s.Equal(order.New, s.order(orderID).Disposition())
	s.Greater(s.order(orderID).Version(), versionBefore)

	retry, err := commands.NewChargeCartCommand(orderID, s.customerID, "tok_visa", s.money("3.00"))
	s.Require().NoError(err)
	s.Require().NoError(charge.Handle(s.ctx, retry))

	o := s.order(orderID)
	s.Equal(order.Paid, o.Disposition())
	s.Equal("ch_sandbox_2", o.ChargeID())
	s.Equal("15.00", o.AmountPaid().String())
	s.False(gateway.Refunded(ports.RefundIdempotencyKey(o.ChargeID())))

	cmd, err := commands.NewCancelCommand(orderID, "customer request")
	s.Require().NoError(err)
	s.Require().NoError(cancel.Handle(s.ctx, cmd))
	s.True(gateway.Refunded(ports.RefundIdempotencyKey("ch_sandbox_2")))
}

func (s *LifecycleSuite) TestCancelBeatsConcurrentClaim() {
	orderID := s.claimedBy(s.driverD)
	s.Require().NoError(s.rejectByDriver(orderID, s.driverD))
	s.gateway.On("Refund", mock.Anything, mock.Anything).Return(nil).Once()

	var cancelErr error
	s.store.beforeCommit = func() {
		cancelErr = s.canceled(orderID)
	}
	claimErr := s.acceptByDriver(orderID, s.driverE)

	s.Require().NoError(cancelErr)
	s.Require().ErrorIs(claimErr, errs.ErrConcurrentConflict)

	o := s.order(orderID)
	s.Equal(order.Canceled, o.Disposition())
	s.Nil(o.DriverID())
	s.Equal(0, s.routeOf(s.driverE).Len())
	s.Empty(s.driver(s.driverE).ActiveOrders())
	s.gateway.AssertExpectations(s.T())
}

func (s *LifecycleSuite) TestChargeWriteFailureWithFailedRefund() {
	orderID := s.newCart(order.Pickup)
	s.expectCharge(orderID, "12.00")
	s.gateway.On("Refund", mock.Anything, mock.Anything).Return(errors.New("gateway down")).Once()
	s.store.failCommit = errors.New("connection reset")

	err := s.charge(orderID)

	var consistency *errs.ConsistencyFailureError
	s.Require().ErrorAs(err, &consistency)
	s.False(consistency.Compensated)
}

func (s *LifecycleSuite) TestChargeAmountMismatchRefunds() {
	orderID := s.newCart(order.Pickup)
	s.expectCharge(orderID, "11.00")
	s.gateway.On("Refund", mock.Anything, mock.Anything).Return(nil).Once()

	err := s.charge(orderID)

	s.Require().ErrorIs(err, errs.ErrConsistencyFailure)
	s.Require().ErrorIs(err, errs.ErrValueIsInvalid)
	s.Equal(order.New, s.order(orderID).Disposition())
}

func (s *LifecycleSuite) TestVendorAcceptGuards() {
	s.Run("inactive driver fails the whole acceptance", func() {
		orderID := s.paid(order.Delivery)
		status, err := commands.NewChangeDriverStatusCommand(s.driverE, participant.DriverInactive)
		s.Require().NoError(err)
		s.cache.On("Forget", mock.Anything, s.driverE).Return(nil).Once()
		s.Require().NoError(s.people.ChangeDriverStatus(s.ctx, status))

		err = s.acceptByVendor(orderID, 20, &s.driverE)

		s.requireGuard(err, "driver inactive")
		s.Equal(order.Paid, s.order(orderID).Disposition())
		s.Equal(0, s.routeOf(s.driverE).Len())
		s.cache.AssertExpectations(s.T())
	})

	s.Run("directory outage is an external failure", func() {
		orderID := s.paid(order.Delivery)
		s.directory.err = errors.New("timeout")
		defer func() { s.directory.err = nil }()

		err := s.acceptByVendor(orderID, 20, &s.driverD)

		s.Require().ErrorIs(err, errs.ErrExternalFailure)
		s.Equal(order.Paid, s.order(orderID).Disposition())
	})

	s.Run("only the order's vendor", func() {
		orderID := s.paid(order.Delivery)
		cmd, err := commands.NewVendorAcceptCommand(orderID, kernel.NewUUID(), 20, &s.driverD)
		s.Require().NoError(err)

		err = s.vendorAccept.Handle(s.ctx, cmd)

		s.requireGuard(err, "vendor does not own order")
	})

	s.Run("delivery needs a driver", func() {
		orderID := s.paid(order.Delivery)

		err := s.acceptByVendor(orderID, 20, nil)

		s.Require().ErrorIs(err, errs.ErrValueIsRequired)
	})

	s.Run("default prep time comes from settings", func() {
		cmd, err := commands.NewUpdateSettingCommand("prep.defaultMinutes", "", "35", kernel.NewUUID())
		s.Require().NoError(err)
		s.Require().NoError(s.settings.Handle(s.ctx, cmd))
		orderID := s.paid(order.Pickup)

		s.Require().NoError(s.acceptByVendor(orderID, 0, nil))

		s.Equal(s.now.Add(35*time.Minute), *s.order(orderID).EstimatedReadyAt())
	})
}

func (s *LifecycleSuite) TestDriverActionsOnForeignOrders() {
	orderID := s.claimedBy(s.driverD)

	s.requireGuard(s.rejectByDriver(orderID, s.driverE), "order does not belong to this driver")
	s.Require().NoError(s.ready(orderID))
	s.requireGuard(s.pickedUp(orderID, s.driverE), "order does not belong to this driver")
}

func (s *LifecycleSuite) TestCancelRefundFailureKeepsOrder() {
	orderID := s.claimedBy(s.driverD)
	s.gateway.On("Refund", mock.Anything, mock.Anything).Return(errors.New("gateway down")).Once()

	err := s.canceled(orderID)

	s.Require().ErrorIs(err, errs.ErrExternalFailure)
	s.Equal(order.AcceptedByDriver, s.order(orderID).Disposition())
	s.True(s.routeOf(s.driverD).Contains(orderID))
}

func (s *LifecycleSuite) TestCancelCartNeedsNoRefund() {
	orderID := s.newCart(order.Delivery)

	s.Require().NoError(s.canceled(orderID))

	s.Equal(order.Canceled, s.order(orderID).Disposition())
	s.Nil(s.customer().Cart())
	s.Equal([]kernel.UUID{orderID}, s.customer().OrderHistory())
	s.gateway.AssertNotCalled(s.T(), "Refund", mock.Anything, mock.Anything)
}

func (s *LifecycleSuite) TestExpireCartsCancelsOnlyOldCarts() {
	old := s.newCart(order.Pickup)
	s.now = s.now.Add(3 * time.Hour)
	cmd, err := commands.NewExpireCartsCommand(2*time.Hour, 10)
	s.Require().NoError(err)

	n, err := s.expireCarts.Handle(s.ctx, cmd)

	s.Require().NoError(err)
	s.Equal(1, n)
	s.Equal(order.Canceled, s.order(old).Disposition())

	fresh := s.newCart(order.Pickup)
	n, err = s.expireCarts.Handle(s.ctx, cmd)
	s.Require().NoError(err)
	s.Equal(0, n)
	s.Equal(order.New, s.order(fresh).Disposition())
}

func (s *LifecycleSuite) TestCartEditing() {
	orderID := s.newCart(order.Pickup)
	extraID := kernel.NewUUID()
	add, err := commands.NewAddLineItemCommand(orderID, s.customerID, commands.LineItemInput{
		ID: extraID, MenuItemID: kernel.NewUUID(), BasePrice: s.money("4.50"),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.editCart.AddLineItem(s.ctx, add))
	s.Equal("16.50", s.order(orderID).Subtotal().String())

	remove, err := commands.NewRemoveLineItemCommand(orderID, s.customerID, extraID)
	s.Require().NoError(err)
	s.Require().NoError(s.editCart.RemoveLineItem(s.ctx, remove))
	s.Equal("12.00", s.order(orderID).Subtotal().String())

	stranger, err := commands.NewRemoveLineItemCommand(orderID, kernel.NewUUID(), extraID)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.editCart.RemoveLineItem(s.ctx, stranger), errs.ErrObjectNotFound)
}

func (s *LifecycleSuite) TestAddressFrozenOncePlaced() {
	street := "2 Elm St"
	edit, err := commands.NewEditAddressCommand(s.addressID, s.customerID, address.Changes{Street: &street})
	s.Require().NoError(err)

	orderID := s.newCart(order.Delivery)
	s.Require().NoError(s.addresses.Edit(s.ctx, edit), "a cart does not freeze its address")

	s.expectCharge(orderID, "12.00")
	s.Require().NoError(s.charge(orderID))

	s.Require().ErrorIs(s.addresses.Edit(s.ctx, edit), errs.ErrGuardViolation)
	del, err := commands.NewDeleteAddressCommand(s.addressID, s.customerID)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.addresses.Delete(s.ctx, del), errs.ErrGuardViolation)
}

func (s *LifecycleSuite) TestRepeatedRejectionsNeverDropTheOrder() {
	orderID := s.claimedBy(s.driverD)
	for range 5 {
		s.Require().NoError(s.rejectByDriver(orderID, s.driverD))
		s.Require().NoError(s.acceptByDriver(orderID, s.driverD))
	}

	o := s.order(orderID)
	s.Equal(order.AcceptedByDriver, o.Disposition())
	s.Equal(5, o.Rejections())
	s.Equal([]kernel.UUID{orderID}, s.routeOf(s.driverD).Stops())
}
