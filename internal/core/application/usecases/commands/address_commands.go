package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAddAddressCommandIsNotConstructed = errors.New(
		"AddAddressCommand must be created via NewAddAddressCommand constructor",
	)
	ErrEditAddressCommandIsNotConstructed = errors.New(
		"EditAddressCommand must be created via NewEditAddressCommand constructor",
	)
	ErrDeleteAddressCommandIsNotConstructed = errors.New(
		"DeleteAddressCommand must be created via NewDeleteAddressCommand constructor",
	)
)

type addressRef struct {
	addressID  kernel.UUID
	customerID kernel.UUID
}

func newAddressRef(addressID, customerID kernel.UUID) (addressRef, error) {
	var err error
	if e := addressID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("address", e))
	}
	if e := customerID.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("customer", e))
	}
	return addressRef{addressID: addressID, customerID: customerID}, err
}

func (r addressRef) AddressID() kernel.UUID  { return r.addressID }
func (r addressRef) CustomerID() kernel.UUID { return r.customerID }

type AddAddressCommand struct {
	addressRef
	fields address.Fields
	guard  guard.ConstructorGuard
}

func NewAddAddressCommand(addressID, customerID kernel.UUID, fields address.Fields) (AddAddressCommand, error) {
	ref, err := newAddressRef(addressID, customerID)
	if err != nil {
		return AddAddressCommand{}, err
	}
	return AddAddressCommand{addressRef: ref, fields: fields, guard: guard.NewConstructorGuard()}, nil
}

func (c AddAddressCommand) Validate() error {
	return c.guard.Validate(ErrAddAddressCommandIsNotConstructed)
}

func (c AddAddressCommand) Fields() address.Fields { return c.fields }

type EditAddressCommand struct {
	addressRef
	changes address.Changes
	guard   guard.ConstructorGuard
}

func NewEditAddressCommand(addressID, customerID kernel.UUID, changes address.Changes) (EditAddressCommand, error) {
	ref, err := newAddressRef(addressID, customerID)
	if err != nil {
		return EditAddressCommand{}, err
	}
	return EditAddressCommand{addressRef: ref, changes: changes, guard: guard.NewConstructorGuard()}, nil
}

func (c EditAddressCommand) Validate() error {
	return c.guard.Validate(ErrEditAddressCommandIsNotConstructed)
}

func (c EditAddressCommand) Changes() address.Changes { return c.changes }

type DeleteAddressCommand struct {
	addressRef
	guard guard.ConstructorGuard
}

func NewDeleteAddressCommand(addressID, customerID kernel.UUID) (DeleteAddressCommand, error) {
	ref, err := newAddressRef(addressID, customerID)
	if err != nil {
		return DeleteAddressCommand{}, err
	}
	return DeleteAddressCommand{addressRef: ref, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteAddressCommand) Validate() error {
	return c.guard.Validate(ErrDeleteAddressCommandIsNotConstructed)
}
