package ports

import (
	"context"
	"errors"
	"strconv"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrPaymentDeclined is returned by a PaymentGateway when the instrument was refused.
var ErrPaymentDeclined = errors.New("payment declined")

// ChargeRequest asks the gateway to authorize and capture one order total.
//
// IdempotencyKey must be stable per charge attempt: a retry after an ambiguous failure
// (timeout, dropped connection) with the same key returns the original charge instead
// of capturing twice. See ChargeIdempotencyKey.
type ChargeRequest struct {
	IdempotencyKey string
	OrderID        kernel.UUID
	CustomerID     kernel.UUID
	VendorID       kernel.UUID
	PaymentToken   string
	Amount         kernel.Money
}

// Charge is a successful capture.
type Charge struct {
	ID     string
	Amount kernel.Money
}

// RefundRequest reverses a capture. IdempotencyKey is derived from the charge, see
// RefundIdempotencyKey.
type RefundRequest struct {
	IdempotencyKey string
	ChargeID       string
	Amount         kernel.Money
}

// PaymentGateway is the external payment processor.
type PaymentGateway interface {
	AuthorizeAndCharge(ctx context.Context, req ChargeRequest) (Charge, error)
	Refund(ctx context.Context, req RefundRequest) error
}

// ChargeIdempotencyKey scopes a charge to the order at one stored version. Retries of
// an unchanged cart share the key; a cart whose capture was refunded is written again,
// so its next attempt gets a fresh key instead of replaying the refunded charge.
func ChargeIdempotencyKey(orderID kernel.UUID, version int64) string {
	return "charge-" + orderID.String() + "-v" + strconv.FormatInt(version, 10)
}

// RefundIdempotencyKey derives the refund key from the charge it reverses.
func RefundIdempotencyKey(chargeID string) string {
	return "refund-" + chargeID
}
