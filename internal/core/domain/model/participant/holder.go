package participant

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// GuardSummary is the guard name reported when a participant's order sets disagree with a transition.
const GuardSummary = "summary"

// OrderHolder is the capability shared by every participant summary: it tracks which
// orders the participant is currently involved in and which it has finished with.
//
// An order reference sits in exactly one set of a holder at a time. Moving it between
// sets is done by the command that changes the order's disposition, inside the same
// unit of work.
type OrderHolder interface {
	ID() kernel.UUID
	Role() Role
	ActiveOrders() []kernel.UUID
	OrderHistory() []kernel.UUID
	IsActive(orderID kernel.UUID) bool
	Activate(orderID kernel.UUID) error
	Complete(orderID kernel.UUID) error
	Version() int64
	MarkPersisted()
}

// holdings is the shared OrderHolder state embedded in every participant.
type holdings struct {
	role    Role
	active  []kernel.UUID
	history []kernel.UUID
	version int64
}

func newHoldings(role Role) holdings {
	return holdings{
		role:    role,
		active:  make([]kernel.UUID, 0),
		history: make([]kernel.UUID, 0),
	}
}

func restoreHoldings(role Role, active, history []kernel.UUID, version int64) (holdings, error) {
	h := newHoldings(role)
	if version < 0 {
		return h, errs.NewVersionIsInvalidErrorWithCause(role.String()+" version", fmt.Errorf("%d is negative", version))
	}
	h.version = version

	for _, id := range active {
		if err := h.Activate(id); err != nil {
			return h, err
		}
	}
	for _, id := range history {
		if err := h.archive(id); err != nil {
			return h, err
		}
	}
	return h, nil
}

func (h *holdings) Role() Role {
	return h.role
}

func (h *holdings) ActiveOrders() []kernel.UUID {
	return append([]kernel.UUID(nil), h.active...)
}

func (h *holdings) OrderHistory() []kernel.UUID {
	return append([]kernel.UUID(nil), h.history...)
}

func (h *holdings) IsActive(orderID kernel.UUID) bool {
	return indexOf(h.active, orderID) >= 0
}

// Activate starts tracking an order the participant now works on.
func (h *holdings) Activate(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if h.tracks(orderID) {
		return errs.NewGuardViolationError(GuardSummary,
			fmt.Sprintf("order %s is already tracked by %s", orderID, h.role))
	}
	h.active = append(h.active, orderID)
	return nil
}

// Complete moves an active order into the history.
func (h *holdings) Complete(orderID kernel.UUID) error {
	if err := h.Release(orderID); err != nil {
		return err
	}
	h.history = append(h.history, orderID)
	return nil
}

// Release stops tracking an active order without recording it in the history. Used when
// a driver hands an order back before pickup.
func (h *holdings) Release(orderID kernel.UUID) error {
	idx := indexOf(h.active, orderID)
	if idx < 0 {
		return errs.NewGuardViolationError(GuardSummary,
			fmt.Sprintf("order %s is not active for %s", orderID, h.role))
	}
	h.active = append(h.active[:idx:idx], h.active[idx+1:]...)
	return nil
}

func (h *holdings) Version() int64 {
	return h.version
}

func (h *holdings) MarkPersisted() {
	h.version++
}

func (h *holdings) archive(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if h.tracks(orderID) {
		return errs.NewGuardViolationError(GuardSummary,
			fmt.Sprintf("order %s is already tracked by %s", orderID, h.role))
	}
	h.history = append(h.history, orderID)
	return nil
}

func (h *holdings) tracks(orderID kernel.UUID) bool {
	return indexOf(h.active, orderID) >= 0 || indexOf(h.history, orderID) >= 0
}

func indexOf(ids []kernel.UUID, id kernel.UUID) int {
	for i := range ids {
		if ids[i].IsEqual(id) {
			return i
		}
	}
	return -1
}
