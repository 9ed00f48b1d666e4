package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Method is how an order reaches the customer.
type Method int

const (
	UnknownMethod Method = iota
	// Delivery orders pass through a driver's route.
	Delivery
	// Pickup orders are collected at the vendor and skip every driver state.
	Pickup
)

var methodNames = map[Method]string{
	Delivery: "DELIVERY",
	Pickup:   "PICKUP",
}

// ParseMethod maps "DELIVERY" or "PICKUP" to a Method.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return UnknownMethod, errs.NewValueIsInvalidErrorWithCause("method", fmt.Errorf("%q is not a known method", s))
}

func (m Method) Validate() error {
	if _, ok := methodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("method", fmt.Errorf("%d is not a valid method", m))
	}
	return nil
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "UNKNOWN"
}
