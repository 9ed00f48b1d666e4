package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrChargeCartCommandIsNotConstructed = errors.New(
	"ChargeCartCommand must be created via NewChargeCartCommand constructor",
)

// ChargeCartCommand pays for a cart with the customer's payment token.
type ChargeCartCommand struct {
	cartRef
	paymentToken string
	tip          kernel.Money
	guard        guard.ConstructorGuard
}

func NewChargeCartCommand(orderID, customerID kernel.UUID, paymentToken string, tip kernel.Money) (ChargeCartCommand, error) {
	ref, err := newCartRef(orderID, customerID)
	if strings.TrimSpace(paymentToken) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("payment token"))
	}
	if err != nil {
		return ChargeCartCommand{}, err
	}
	return ChargeCartCommand{
		cartRef:      ref,
		paymentToken: paymentToken,
		tip:          tip,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ChargeCartCommand) Validate() error {
	return c.guard.Validate(ErrChargeCartCommandIsNotConstructed)
}

func (c ChargeCartCommand) PaymentToken() string { return c.paymentToken }
func (c ChargeCartCommand) Tip() kernel.Money    { return c.tip }
