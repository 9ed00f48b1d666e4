package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrListParticipantOrdersQueryIsNotConstructed = errors.New(
		"ListParticipantOrdersQuery must be created via NewListParticipantOrdersQuery constructor",
	)
)

// ListParticipantOrdersQuery lists either the active orders or the order history of
// a customer, vendor or driver. A customer's open cart is in neither list.
//
// Example:
//
//	query, _ := NewListParticipantOrdersQuery(vendorID, false)
//	active, err := NewListParticipantOrdersQueryHandler(db).Handle(ctx, query)
type ListParticipantOrdersQuery struct {
	participantID kernel.UUID
	completed     bool
	guard         guard.ConstructorGuard
}

func NewListParticipantOrdersQuery(participantID kernel.UUID, completed bool) (ListParticipantOrdersQuery, error) {
	if err := participantID.Validate(); err != nil {
		return ListParticipantOrdersQuery{}, err
	}
	return ListParticipantOrdersQuery{
		participantID: participantID,
		completed:     completed,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q ListParticipantOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListParticipantOrdersQueryIsNotConstructed)
}

func (q ListParticipantOrdersQuery) ParticipantID() kernel.UUID {
	return q.participantID
}

// Completed selects the history instead of the active set.
func (q ListParticipantOrdersQuery) Completed() bool {
	return q.completed
}
