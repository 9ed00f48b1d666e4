package payment

import (
	"context"
	"fmt"
	"sync"

	"dispatch/internal/core/ports"

	"github.com/pkg/errors"
)

// DeclinedToken is the payment token the sandbox always refuses.
const DeclinedToken = "tok_declined"

var _ ports.PaymentGateway = (*SandboxGateway)(nil)

// SandboxGateway accepts every token except DeclinedToken and honors idempotency
// keys the way a real processor does.
type SandboxGateway struct {
	mu       sync.Mutex
	charges  map[string]ports.Charge
	refunded map[string]bool
	seq      int
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{
		charges:  make(map[string]ports.Charge),
		refunded: make(map[string]bool),
	}
}

func (g *SandboxGateway) AuthorizeAndCharge(_ context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	if req.PaymentToken == DeclinedToken {
		return ports.Charge{}, fmt.Errorf("%w: sandbox token", ports.ErrPaymentDeclined)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.charges[req.IdempotencyKey]; ok {
		return c, nil
	}
	g.seq++
	c := ports.Charge{ID: fmt.Sprintf("ch_sandbox_%d", g.seq), Amount: req.Amount}
	g.charges[req.IdempotencyKey] = c
	return c, nil
}

func (g *SandboxGateway) Refund(_ context.Context, req ports.RefundRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.charges {
		if c.ID == req.ChargeID {
			g.refunded[req.IdempotencyKey] = true
			return nil
		}
	}
	return errors.Errorf("unknown charge %s", req.ChargeID)
}

// Refunded reports whether a refund with key went through.
func (g *SandboxGateway) Refunded(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refunded[key]
}
