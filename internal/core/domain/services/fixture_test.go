package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// world is one order with every participant it can touch.
type world struct {
	order    *order.Order
	customer *participant.Customer
	vendor   *participant.Vendor
	driver   *participant.Driver
	route    *route.Route
}

func newWorld(t *testing.T, method order.Method) *world {
	t.Helper()
	w := &world{}
	var err error

	w.customer, err = participant.NewCustomer(kernel.NewUUID(), "Ada")
	require.NoError(t, err)
	w.vendor, err = participant.NewVendor(kernel.NewUUID(), "Noodle Bar")
	require.NoError(t, err)
	w.driver, err = participant.NewDriver(kernel.NewUUID(), "Sam")
	require.NoError(t, err)
	w.route, err = route.NewRoute(kernel.NewUUID(), w.driver.ID(), nil, now)
	require.NoError(t, err)

	ten, err := kernel.MoneyFromString("10.00")
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), ten, nil)
	require.NoError(t, err)
	w.order, err = order.NewCart(kernel.NewUUID(), w.customer.ID(), w.vendor.ID(), method, item, now)
	require.NoError(t, err)
	require.NoError(t, w.customer.OpenCart(w.order.ID()))
	if method == order.Delivery {
		require.NoError(t, w.order.SelectAddress(kernel.NewUUID()))
	}
	return w
}

// paid charges the cart and checks it out of the customer's cart.
func (w *world) paid(t *testing.T) *world {
	t.Helper()
	require.NoError(t, w.order.Charge("ch_1", w.order.ChargeAmount()))
	require.NoError(t, w.customer.CheckOut(w.order.ID()))
	require.NoError(t, w.vendor.Activate(w.order.ID()))
	return w
}

func (w *world) accepted(t *testing.T) *world {
	t.Helper()
	w.paid(t)
	require.NoError(t, w.order.VendorAccept(w.vendor.ID(), 20*time.Minute, 15*time.Minute, now))
	return w
}

func requireGuard(t *testing.T, err error, reason string) {
	t.Helper()
	var guardErr *errs.GuardViolationError
	require.ErrorAs(t, err, &guardErr)
	assert.Contains(t, guardErr.Reason, reason)
}
