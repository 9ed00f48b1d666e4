package participantrepo_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/postgres/participantrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ParticipantRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg        *pgtest.Database
	vendors   *participantrepo.GormVendorRepository
	drivers   *participantrepo.GormDriverRepository
	customers *participantrepo.GormCustomerRepository
}

func TestParticipantRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(ParticipantRepositoryIntegrationTestSuite))
}

func (suite *ParticipantRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.pg = pg
	suite.Require().NoError(err)
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Stop(context.Background()))
}

func (suite *ParticipantRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.vendors = participantrepo.NewGormVendorRepository(suite.pg.DB)
	suite.drivers = participantrepo.NewGormDriverRepository(suite.pg.DB)
	suite.customers = participantrepo.NewGormCustomerRepository(suite.pg.DB)
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TestVendorHoldingsKeepTheirOrder() {
	ctx := context.Background()
	v, err := participant.NewVendor(kernel.NewUUID(), "Noodle Bar")
	suite.Require().NoError(err)
	first, second, third := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(suite.vendors.Add(ctx, v))

	suite.Require().NoError(v.Activate(first))
	suite.Require().NoError(v.Activate(second))
	suite.Require().NoError(v.Activate(third))
	suite.Require().NoError(v.Complete(second))
	suite.Require().NoError(suite.vendors.Update(ctx, v))

	got, err := suite.vendors.Get(ctx, v.ID())
	suite.Require().NoError(err)
	suite.Equal("Noodle Bar", got.Name())
	suite.Equal([]kernel.UUID{first, third}, got.ActiveOrders())
	suite.Equal([]kernel.UUID{second}, got.OrderHistory())
	suite.Equal(int64(2), got.Version())
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TestDriverStatusIsStored() {
	ctx := context.Background()
	d, err := participant.NewDriver(kernel.NewUUID(), "Dana")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.drivers.Add(ctx, d))

	suite.Require().NoError(d.SetStatus(participant.DriverInactive))
	suite.Require().NoError(suite.drivers.Update(ctx, d))

	got, err := suite.drivers.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(participant.DriverInactive, got.Status())
	suite.False(got.IsAvailable())
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TestCustomerCartClears() {
	ctx := context.Background()
	c, err := participant.NewCustomer(kernel.NewUUID(), "Ada")
	suite.Require().NoError(err)
	cart := kernel.NewUUID()
	suite.Require().NoError(c.OpenCart(cart))
	suite.Require().NoError(suite.customers.Add(ctx, c))

	suite.Require().NoError(c.CheckOut(cart))
	suite.Require().NoError(suite.customers.Update(ctx, c))

	got, err := suite.customers.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Nil(got.Cart())
	suite.Equal([]kernel.UUID{cart}, got.ActiveOrders())
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TestStaleVersionConflicts() {
	ctx := context.Background()
	v, err := participant.NewVendor(kernel.NewUUID(), "Noodle Bar")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.vendors.Add(ctx, v))

	a, err := suite.vendors.Get(ctx, v.ID())
	suite.Require().NoError(err)
	b, err := suite.vendors.Get(ctx, v.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(a.Activate(kernel.NewUUID()))
	suite.Require().NoError(suite.vendors.Update(ctx, a))
	suite.Require().NoError(b.Activate(kernel.NewUUID()))
	err = suite.vendors.Update(ctx, b)

	suite.Require().ErrorIs(err, errs.ErrConcurrentConflict)
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TestMissingParticipant() {
	_, err := suite.drivers.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ParticipantRepositoryIntegrationTestSuite) TestDriverDirectory() {
	ctx := context.Background()
	d, err := participant.NewDriver(kernel.NewUUID(), "Dana")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.drivers.Add(ctx, d))
	directory := participantrepo.NewDriverDirectory(suite.pg.DB)

	isActive, err := directory.IsActive(ctx, d.ID())
	suite.Require().NoError(err)
	suite.True(isActive)

	suite.Require().NoError(d.SetStatus(participant.DriverInactive))
	suite.Require().NoError(suite.drivers.Update(ctx, d))
	isActive, err = directory.IsActive(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(isActive)

	isActive, err = directory.IsActive(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.False(isActive)
}
