package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrExpireCartsCommandIsNotConstructed = errors.New(
	"ExpireCartsCommand must be created via NewExpireCartsCommand constructor",
)

// ExpireCartsCommand cancels carts left untouched for longer than maxAge, at most
// batchSize per run.
type ExpireCartsCommand struct {
	maxAge    time.Duration
	batchSize int
	guard     guard.ConstructorGuard
}

func NewExpireCartsCommand(maxAge time.Duration, batchSize int) (ExpireCartsCommand, error) {
	var err error
	if maxAge <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("max age", maxAge.String(), "1ns", "unbounded"))
	}
	if batchSize <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded"))
	}
	if err != nil {
		return ExpireCartsCommand{}, err
	}
	return ExpireCartsCommand{maxAge: maxAge, batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireCartsCommand) Validate() error {
	return c.guard.Validate(ErrExpireCartsCommandIsNotConstructed)
}

func (c ExpireCartsCommand) MaxAge() time.Duration { return c.maxAge }
func (c ExpireCartsCommand) BatchSize() int        { return c.batchSize }
