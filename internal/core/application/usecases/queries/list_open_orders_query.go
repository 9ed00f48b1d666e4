package queries

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const maxOpenOrdersLimit = 500

var (
	ErrListOpenOrdersQueryIsNotConstructed = errors.New(
		"ListOpenOrdersQuery must be created via NewListOpenOrdersQuery constructor",
	)
)

// ListOpenOrdersQuery lists delivery orders the vendor accepted that no driver holds:
// never claimed yet, or handed back by a driver. These are the orders drivers pick from.
type ListOpenOrdersQuery struct {
	readyBy time.Time
	limit   int
	guard   guard.ConstructorGuard
}

// NewListOpenOrdersQuery bounds the result to limit orders. A non-zero readyBy keeps
// only orders expected to be ready by then.
func NewListOpenOrdersQuery(readyBy time.Time, limit int) (ListOpenOrdersQuery, error) {
	if limit < 1 || limit > maxOpenOrdersLimit {
		return ListOpenOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxOpenOrdersLimit)
	}
	return ListOpenOrdersQuery{readyBy: readyBy.UTC(), limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOpenOrdersQueryIsNotConstructed)
}

func (q ListOpenOrdersQuery) ReadyBy() time.Time {
	return q.readyBy
}

func (q ListOpenOrdersQuery) Limit() int {
	return q.limit
}
