package address

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GuardAddressInUse is the guard name reported when an address already backs an order.
const GuardAddressInUse = "address in use"

var (
	// ErrAddressIsNotConstructed is returned when an Address was not created via NewAddress or RestoreAddress.
	ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

	// ErrAddressInUse is returned when editing or deleting an address referenced by a placed order.
	ErrAddressInUse = errs.NewGuardViolationError(GuardAddressInUse,
		"address is referenced by an active or completed order")
)

// Fields is the editable part of an address.
type Fields struct {
	Street   string
	Unit     string
	City     string
	State    string
	Zip      string
	Location *kernel.GeoPoint
}

// Changes lists the fields an edit may touch. Nil fields are left alone; nothing else
// about an address can be changed.
type Changes struct {
	Street   *string
	Unit     *string
	City     *string
	State    *string
	Zip      *string
	Location *kernel.GeoPoint
}

// Address is a delivery destination owned by one customer and referenced by orders.
type Address struct {
	id         kernel.UUID
	customerID kernel.UUID
	fields     Fields
	createdAt  time.Time
	modifiedAt time.Time
	guard      guard.ConstructorGuard
}

func NewAddress(id, customerID kernel.UUID, f Fields, now time.Time) (*Address, error) {
	a := &Address{
		createdAt:  now.UTC(),
		modifiedAt: now.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setCustomerID(customerID),
		a.setFields(f),
	); err != nil {
		return nil, err
	}

	return a, nil
}

func RestoreAddress(id, customerID kernel.UUID, f Fields, createdAt, modifiedAt time.Time) (*Address, error) {
	a, err := NewAddress(id, customerID, f, createdAt)
	if err != nil {
		return nil, err
	}
	a.modifiedAt = modifiedAt.UTC()
	return a, nil
}

func (a *Address) Validate() error {
	if a == nil {
		return ErrAddressIsNotConstructed
	}
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) ID() kernel.UUID {
	return a.id
}

func (a *Address) CustomerID() kernel.UUID {
	return a.customerID
}

func (a *Address) Fields() Fields {
	return a.fields
}

func (a *Address) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Address) ModifiedAt() time.Time {
	return a.modifiedAt
}

// ValidateOwner fails unless the address belongs to the customer.
func (a *Address) ValidateOwner(customerID kernel.UUID) error {
	if !a.customerID.IsEqual(customerID) {
		return errs.NewObjectNotFoundError("address", a.id.String())
	}
	return nil
}

// Edit applies the whitelisted changes. referenced tells whether a placed order points
// at this address; such addresses are frozen so order history keeps its destination.
func (a *Address) Edit(c Changes, referenced bool, now time.Time) error {
	if referenced {
		return ErrAddressInUse
	}

	next := a.fields
	if c.Street != nil {
		next.Street = *c.Street
	}
	if c.Unit != nil {
		next.Unit = *c.Unit
	}
	if c.City != nil {
		next.City = *c.City
	}
	if c.State != nil {
		next.State = *c.State
	}
	if c.Zip != nil {
		next.Zip = *c.Zip
	}
	if c.Location != nil {
		next.Location = c.Location
	}

	if err := a.setFields(next); err != nil {
		return err
	}
	a.modifiedAt = now.UTC()
	return nil
}

func (a *Address) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Address) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	a.customerID = id
	return nil
}

func (a *Address) setFields(f Fields) error {
	f.Street = strings.TrimSpace(f.Street)
	f.Unit = strings.TrimSpace(f.Unit)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Zip = strings.TrimSpace(f.Zip)

	var err error
	if f.Street == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("street"))
	}
	if f.City == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("city"))
	}
	if f.Zip == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("zip"))
	}
	if f.Location != nil {
		err = errors.Join(err, f.Location.Validate())
	}
	if err != nil {
		return err
	}

	a.fields = f
	return nil
}
