package participant

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GuardDriverStatus is the guard name reported when an inactive driver is handed an order.
const GuardDriverStatus = "driver status"

var (
	// ErrDriverIsNotConstructed is returned when a Driver was not created via NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
)

// DriverStatus tells whether a driver may receive new orders.
type DriverStatus int

const (
	UnknownDriverStatus DriverStatus = iota
	DriverActive
	DriverInactive
)

func (s DriverStatus) String() string {
	switch s {
	case DriverActive:
		return "ACTIVE"
	case DriverInactive:
		return "INACTIVE"
	default:
		return "UNKNOWN"
	}
}

func ParseDriverStatus(s string) (DriverStatus, error) {
	switch s {
	case "ACTIVE":
		return DriverActive, nil
	case "INACTIVE":
		return DriverInactive, nil
	default:
		return UnknownDriverStatus, errs.NewValueIsInvalidError("driver status")
	}
}

var _ OrderHolder = (*Driver)(nil)

// Driver is the driver's order summary plus the availability status checked before any
// order is handed over. Going inactive does not take away orders already held.
type Driver struct {
	holdings
	id     kernel.UUID
	name   string
	status DriverStatus
	guard  guard.ConstructorGuard
}

// NewDriver registers a driver. New drivers start ACTIVE.
func NewDriver(id kernel.UUID, name string) (*Driver, error) {
	d := &Driver{
		holdings: newHoldings(DriverRole),
		status:   DriverActive,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	return d, nil
}

func RestoreDriver(
	id kernel.UUID,
	name string,
	status DriverStatus,
	active, history []kernel.UUID,
	version int64,
) (*Driver, error) {
	d, err := NewDriver(id, name)
	if err != nil {
		return nil, err
	}
	if err = d.SetStatus(status); err != nil {
		return nil, err
	}
	if d.holdings, err = restoreHoldings(DriverRole, active, history, version); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Status() DriverStatus {
	return d.status
}

func (d *Driver) IsAvailable() bool {
	return d.status == DriverActive
}

func (d *Driver) SetStatus(status DriverStatus) error {
	if status != DriverActive && status != DriverInactive {
		return errs.NewValueIsInvalidError("driver status")
	}
	d.status = status
	return nil
}

// ValidateAvailable fails with "driver inactive" unless the driver may receive orders.
func (d *Driver) ValidateAvailable() error {
	if !d.IsAvailable() {
		return errs.NewGuardViolationError(GuardDriverStatus, "driver inactive")
	}
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}
