package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/addressrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/participantrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/adapters/out/postgres/routerepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type QueryHandlersIntegrationTestSuite struct {
	suite.Suite
	pg     *pgtest.Database
	orders *orderrepo.GormOrderRepository
}

func TestQueryHandlersIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(QueryHandlersIntegrationTestSuite))
}

func (suite *QueryHandlersIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.pg = pg
	suite.Require().NoError(err)
	suite.orders = orderrepo.NewGormOrderRepository(pg.DB)
}

func (suite *QueryHandlersIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Stop(context.Background()))
}

func (suite *QueryHandlersIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *QueryHandlersIntegrationTestSuite) money(s string) kernel.Money {
	m, err := kernel.MoneyFromString(s)
	suite.Require().NoError(err)
	return m
}

// accepted stores a paid order the vendor accepted with the given prep time.
func (suite *QueryHandlersIntegrationTestSuite) accepted(method order.Method, vendorID kernel.UUID, prep time.Duration) *order.Order {
	ctx := context.Background()
	size, err := order.NewModification("size", order.Option{Name: "large", Price: suite.money("1.50")})
	suite.Require().NoError(err)
	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), suite.money("8.00"), []order.Modification{size})
	suite.Require().NoError(err)
	o, err := order.NewCart(kernel.NewUUID(), kernel.NewUUID(), vendorID, method, item, now)
	suite.Require().NoError(err)

	if method == order.Delivery {
		a, err := address.NewAddress(kernel.NewUUID(), o.CustomerID(), address.Fields{
			Street: "1 Main St", City: "Springfield", Zip: "62701",
		}, now)
		suite.Require().NoError(err)
		suite.Require().NoError(addressrepo.NewGormAddressRepository(suite.pg.DB).Add(ctx, a))
		suite.Require().NoError(o.SelectAddress(a.ID()))
	}
	suite.Require().NoError(o.Charge("ch_"+o.ID().String(), o.ChargeAmount()))
	suite.Require().NoError(o.VendorAccept(vendorID, prep, 15*time.Minute, now))
	suite.Require().NoError(suite.orders.Add(ctx, o))
	return o
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_FullView() {
	o := suite.accepted(order.Delivery, kernel.NewUUID(), 20*time.Minute)
	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)

	got, err := queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.True(got.ID.IsEqual(o.ID()))
	suite.Equal(order.AcceptedByVendor, got.Disposition)
	suite.Equal(order.Delivery, got.Method)
	suite.Equal("9.50", got.Subtotal.String())
	suite.Equal("9.50", got.AmountPaid.String())
	suite.Nil(got.DriverID)
	suite.Require().NotNil(got.AddressID)
	suite.True(got.AddressID.IsEqual(*o.AddressID()))
	suite.Require().NotNil(got.EstimatedReadyAt)
	suite.True(got.EstimatedReadyAt.Equal(now.Add(20 * time.Minute)))
	suite.Nil(got.ActualDeliveryAt)
	suite.Require().Len(got.LineItems, 1)
	suite.Equal("9.50", got.LineItems[0].Price.String())
	suite.Require().Len(got.LineItems[0].Modifications, 1)
	suite.Equal("large", got.LineItems[0].Modifications[0].Options[0].Name)
	suite.Equal("1.50", got.LineItems[0].Modifications[0].Options[0].Price.String())
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_Missing() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetDriverRoute_StopsInVisitingOrder() {
	ctx := context.Background()
	vendorID := kernel.NewUUID()
	first := suite.accepted(order.Delivery, vendorID, 10*time.Minute)
	second := suite.accepted(order.Delivery, vendorID, 30*time.Minute)
	driverID := kernel.NewUUID()
	rt, err := route.NewRoute(kernel.NewUUID(), driverID, &vendorID, now)
	suite.Require().NoError(err)
	suite.Require().NoError(rt.Add(second.ID()))
	suite.Require().NoError(rt.Add(first.ID()))
	suite.Require().NoError(routerepo.NewGormRouteRepository(suite.pg.DB).Add(ctx, rt))

	query, err := queries.NewGetDriverRouteQuery(driverID)
	suite.Require().NoError(err)
	got, err := queries.NewGetDriverRouteQueryHandler(suite.pg.DB).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(got.ID.IsEqual(rt.ID()))
	suite.Require().NotNil(got.VendorID)
	suite.True(got.VendorID.IsEqual(vendorID))
	suite.Require().Len(got.Stops, 2)
	suite.True(got.Stops[0].ID.IsEqual(second.ID()))
	suite.True(got.Stops[1].ID.IsEqual(first.ID()))
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetDriverRoute_NoRoute() {
	query, err := queries.NewGetDriverRouteQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetDriverRouteQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersIntegrationTestSuite) TestListParticipantOrders_SplitsActiveAndHistory() {
	ctx := context.Background()
	v, err := participant.NewVendor(kernel.NewUUID(), "Noodle Bar")
	suite.Require().NoError(err)
	done := suite.accepted(order.Pickup, v.ID(), 10*time.Minute)
	open := suite.accepted(order.Pickup, v.ID(), 10*time.Minute)
	suite.Require().NoError(v.Activate(done.ID()))
	suite.Require().NoError(v.Activate(open.ID()))
	suite.Require().NoError(v.Complete(done.ID()))
	suite.Require().NoError(participantrepo.NewGormVendorRepository(suite.pg.DB).Add(ctx, v))
	handler := queries.NewListParticipantOrdersQueryHandler(suite.pg.DB)

	activeQuery, err := queries.NewListParticipantOrdersQuery(v.ID(), false)
	suite.Require().NoError(err)
	active, err := handler.Handle(ctx, activeQuery)
	suite.Require().NoError(err)
	suite.Require().Len(active, 1)
	suite.True(active[0].ID.IsEqual(open.ID()))

	historyQuery, err := queries.NewListParticipantOrdersQuery(v.ID(), true)
	suite.Require().NoError(err)
	history, err := handler.Handle(ctx, historyQuery)
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	suite.True(history[0].ID.IsEqual(done.ID()))
}

func (suite *QueryHandlersIntegrationTestSuite) TestListOpenOrders_OnlyUnheldDeliveries() {
	ctx := context.Background()
	vendorID := kernel.NewUUID()
	late := suite.accepted(order.Delivery, vendorID, 40*time.Minute)
	soon := suite.accepted(order.Delivery, vendorID, 5*time.Minute)
	suite.accepted(order.Pickup, vendorID, 5*time.Minute)
	claimed := suite.accepted(order.Delivery, vendorID, 5*time.Minute)
	suite.Require().NoError(claimed.AssignDriver(kernel.NewUUID()))
	suite.Require().NoError(suite.orders.Update(ctx, claimed))
	handler := queries.NewListOpenOrdersQueryHandler(suite.pg.DB)

	all, err := queries.NewListOpenOrdersQuery(time.Time{}, 10)
	suite.Require().NoError(err)
	got, err := handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.True(got[0].ID.IsEqual(soon.ID()))
	suite.True(got[1].ID.IsEqual(late.ID()))

	urgent, err := queries.NewListOpenOrdersQuery(now.Add(10*time.Minute), 10)
	suite.Require().NoError(err)
	got, err = handler.Handle(ctx, urgent)
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.True(got[0].ID.IsEqual(soon.ID()))
}
