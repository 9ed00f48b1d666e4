package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterParticipantCommandIsNotConstructed = errors.New(
		"RegisterParticipantCommand must be created via NewRegisterParticipantCommand constructor",
	)
	ErrChangeDriverStatusCommandIsNotConstructed = errors.New(
		"ChangeDriverStatusCommand must be created via NewChangeDriverStatusCommand constructor",
	)
)

// RegisterParticipantCommand creates the order summary of a new customer, vendor or
// driver. Credentials live elsewhere; only the identity and display name are kept.
//
// A driver may belong to one vendor's own fleet; the driver's route then only carries
// that vendor's orders.
type RegisterParticipantCommand struct {
	id       kernel.UUID
	role     participant.Role
	name     string
	vendorID *kernel.UUID
	guard    guard.ConstructorGuard
}

func NewRegisterParticipantCommand(id kernel.UUID, role participant.Role, name string) (RegisterParticipantCommand, error) {
	var err error
	if e := id.Validate(); e != nil {
		err = errors.Join(err, e)
	}
	if role != participant.CustomerRole && role != participant.VendorRole && role != participant.DriverRole {
		err = errors.Join(err, errs.NewValueIsInvalidError("role"))
	}
	if strings.TrimSpace(name) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("name"))
	}
	if err != nil {
		return RegisterParticipantCommand{}, err
	}
	return RegisterParticipantCommand{id: id, role: role, name: name, guard: guard.NewConstructorGuard()}, nil
}

// NewRegisterFleetDriverCommand registers a driver employed by vendorID.
func NewRegisterFleetDriverCommand(id kernel.UUID, name string, vendorID kernel.UUID) (RegisterParticipantCommand, error) {
	cmd, err := NewRegisterParticipantCommand(id, participant.DriverRole, name)
	if err = errors.Join(err, vendorID.Validate()); err != nil {
		return RegisterParticipantCommand{}, err
	}
	cmd.vendorID = &vendorID
	return cmd, nil
}

func (c RegisterParticipantCommand) Validate() error {
	return c.guard.Validate(ErrRegisterParticipantCommandIsNotConstructed)
}

func (c RegisterParticipantCommand) ID() kernel.UUID        { return c.id }
func (c RegisterParticipantCommand) Role() participant.Role { return c.role }
func (c RegisterParticipantCommand) Name() string           { return c.name }

// VendorID is the fleet owner, nil for independent drivers and other roles.
func (c RegisterParticipantCommand) VendorID() *kernel.UUID { return c.vendorID }

// ChangeDriverStatusCommand takes a driver on or off duty.
type ChangeDriverStatusCommand struct {
	driverID kernel.UUID
	status   participant.DriverStatus
	guard    guard.ConstructorGuard
}

func NewChangeDriverStatusCommand(driverID kernel.UUID, status participant.DriverStatus) (ChangeDriverStatusCommand, error) {
	var err error
	if e := driverID.Validate(); e != nil {
		err = errors.Join(err, e)
	}
	if status != participant.DriverActive && status != participant.DriverInactive {
		err = errors.Join(err, errs.NewValueIsInvalidError("driver status"))
	}
	if err != nil {
		return ChangeDriverStatusCommand{}, err
	}
	return ChangeDriverStatusCommand{driverID: driverID, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeDriverStatusCommandIsNotConstructed)
}

func (c ChangeDriverStatusCommand) DriverID() kernel.UUID            { return c.driverID }
func (c ChangeDriverStatusCommand) Status() participant.DriverStatus { return c.status }
