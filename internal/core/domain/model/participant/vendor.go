package participant

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrVendorIsNotConstructed is returned when a Vendor was not created via NewVendor or RestoreVendor.
	ErrVendorIsNotConstructed = errors.New("Vendor must be created via NewVendor constructor")
)

var _ OrderHolder = (*Vendor)(nil)

// Vendor is the vendor's order summary.
type Vendor struct {
	holdings
	id    kernel.UUID
	name  string
	guard guard.ConstructorGuard
}

func NewVendor(id kernel.UUID, name string) (*Vendor, error) {
	v := &Vendor{
		holdings: newHoldings(VendorRole),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setName(name),
	); err != nil {
		return nil, err
	}

	return v, nil
}

func RestoreVendor(id kernel.UUID, name string, active, history []kernel.UUID, version int64) (*Vendor, error) {
	v, err := NewVendor(id, name)
	if err != nil {
		return nil, err
	}
	if v.holdings, err = restoreHoldings(VendorRole, active, history, version); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vendor) Validate() error {
	if v == nil {
		return ErrVendorIsNotConstructed
	}
	return v.guard.Validate(ErrVendorIsNotConstructed)
}

func (v *Vendor) ID() kernel.UUID {
	return v.id
}

func (v *Vendor) Name() string {
	return v.name
}

func (v *Vendor) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vendor) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	v.name = name
	return nil
}
