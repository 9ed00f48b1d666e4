package commands_test

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) AuthorizeAndCharge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.Charge), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, req ports.RefundRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockDriverStatusCache struct{ mock.Mock }

func (m *MockDriverStatusCache) Forget(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

type notification struct {
	event ports.OrderEvent
	role  participant.Role
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, event ports.OrderEvent, role participant.Role) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{event: event, role: role})
}

func (n *recordingNotifier) roles(orderID kernel.UUID) []participant.Role {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []participant.Role
	for _, s := range n.sent {
		if s.event.OrderID.IsEqual(orderID) {
			out = append(out, s.role)
		}
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// storeDirectory answers from the driver records of the store.
type storeDirectory struct {
	store *memStore
	err   error
}

func (d *storeDirectory) IsActive(_ context.Context, driverID kernel.UUID) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	var active bool
	d.store.read(func(t tables) {
		rec, ok := t.drivers[driverID]
		active = ok && rec.status == participant.DriverActive
	})
	return active, nil
}
