package participant

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GuardCart is the guard name reported for cart ownership violations.
const GuardCart = "cart"

var (
	// ErrCustomerIsNotConstructed is returned when a Customer was not created via NewCustomer or RestoreCustomer.
	ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")
)

var _ OrderHolder = (*Customer)(nil)

// Customer is the customer's order summary. Besides the shared active and history sets
// it holds at most one open cart, which is neither active nor history until it is
// charged or discarded.
type Customer struct {
	holdings
	id    kernel.UUID
	name  string
	cart  *kernel.UUID
	guard guard.ConstructorGuard
}

func NewCustomer(id kernel.UUID, name string) (*Customer, error) {
	c := &Customer{
		holdings: newHoldings(CustomerRole),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCustomer rebuilds a persisted customer summary.
func RestoreCustomer(
	id kernel.UUID,
	name string,
	cart *kernel.UUID,
	active, history []kernel.UUID,
	version int64,
) (*Customer, error) {
	c, err := NewCustomer(id, name)
	if err != nil {
		return nil, err
	}

	if c.holdings, err = restoreHoldings(CustomerRole, active, history, version); err != nil {
		return nil, err
	}
	if cart != nil {
		if err = c.OpenCart(*cart); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c *Customer) ID() kernel.UUID {
	return c.id
}

func (c *Customer) Name() string {
	return c.name
}

// Cart returns the open cart or nil.
func (c *Customer) Cart() *kernel.UUID {
	return c.cart
}

// OpenCart records a freshly created cart. A customer has at most one open cart.
func (c *Customer) OpenCart(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if c.cart != nil {
		return errs.NewGuardViolationError(GuardCart, "customer already has an open cart")
	}
	if c.tracks(orderID) {
		return errs.NewGuardViolationError(GuardSummary, "order is already tracked by "+c.role.String())
	}
	c.cart = &orderID
	return nil
}

// CheckOut moves the charged cart into the active set.
func (c *Customer) CheckOut(orderID kernel.UUID) error {
	if err := c.ValidateCart(orderID); err != nil {
		return err
	}
	c.cart = nil
	return c.Activate(orderID)
}

// DiscardCart moves a canceled cart straight into the history.
func (c *Customer) DiscardCart(orderID kernel.UUID) error {
	if err := c.ValidateCart(orderID); err != nil {
		return err
	}
	c.cart = nil
	return c.archive(orderID)
}

// ValidateCart fails unless orderID is the customer's open cart.
func (c *Customer) ValidateCart(orderID kernel.UUID) error {
	if c.cart == nil || !c.cart.IsEqual(orderID) {
		return errs.NewGuardViolationError(GuardCart, "order is not the customer's cart")
	}
	return nil
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
