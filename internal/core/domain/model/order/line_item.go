package order

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrLineItemIsNotConstructed is returned when a LineItem was not created through NewLineItem or RestoreLineItem.
	ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

	// ErrModificationWithoutOptions is returned for a modification that selects nothing.
	ErrModificationWithoutOptions = errs.NewValueIsRequiredError("modification options")
)

// Option is one selectable choice of a menu modification, e.g. "extra cheese" for +1.50.
type Option struct {
	Name  string
	Price kernel.Money
}

// Modification groups the options a customer picked for one customizable aspect of a
// menu item ("toppings", "size"). A single-choice modification is a group of one.
type Modification struct {
	Name    string
	Options []Option
}

// NewModification builds a modification and rejects an empty selection or blank option names.
func NewModification(name string, options ...Option) (Modification, error) {
	if strings.TrimSpace(name) == "" {
		return Modification{}, errs.NewValueIsRequiredError("modification name")
	}
	if len(options) == 0 {
		return Modification{}, ErrModificationWithoutOptions
	}
	for i, o := range options {
		if strings.TrimSpace(o.Name) == "" {
			return Modification{}, errs.NewValueIsRequiredErrorWithCause(
				"option name", fmt.Errorf("option %d of %q has no name", i, name))
		}
	}
	return Modification{Name: name, Options: append([]Option(nil), options...)}, nil
}

// Price is the sum of every selected option.
func (m Modification) Price() kernel.Money {
	total := kernel.ZeroMoney()
	for _, o := range m.Options {
		total = total.Add(o.Price)
	}
	return total
}

// LineItem is one entry of an order. It is owned by exactly one Order and never shared.
//
// The price is a snapshot computed once when the item is added: the menu item's base
// price plus the price of every selected option. Later menu price changes do not touch
// orders already holding the item.
type LineItem struct {
	id            kernel.UUID
	menuItemID    kernel.UUID
	basePrice     kernel.Money
	modifications []Modification
	price         kernel.Money
	guard         guard.ConstructorGuard
}

// NewLineItem snapshots a menu selection and computes its price.
//
// Parameters:
//   - id: identity of the new line item
//   - menuItemID: the menu item being ordered
//   - basePrice: the menu item's price at the time of selection
//   - modifications: selected options; may be empty
//
// Example:
//
//	ten, _ := kernel.MoneyFromString("10.00")
//	two, _ := kernel.MoneyFromString("2.00")
//	cheese, _ := order.NewModification("cheese", order.Option{Name: "extra", Price: two})
//	item, _ := order.NewLineItem(kernel.NewUUID(), menuItemID, ten, []order.Modification{cheese})
//	item.Price() // 12.00
func NewLineItem(
	id kernel.UUID,
	menuItemID kernel.UUID,
	basePrice kernel.Money,
	modifications []Modification,
) (*LineItem, error) {
	item := &LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setMenuItemID(menuItemID),
		item.setModifications(modifications),
	); err != nil {
		return nil, err
	}

	item.basePrice = basePrice
	item.price = computePrice(basePrice, item.modifications)
	return item, nil
}

// RestoreLineItem rebuilds a persisted line item. The stored price must match the stored
// base price and options, otherwise the row was tampered with.
func RestoreLineItem(
	id kernel.UUID,
	menuItemID kernel.UUID,
	basePrice kernel.Money,
	modifications []Modification,
	price kernel.Money,
) (*LineItem, error) {
	item, err := NewLineItem(id, menuItemID, basePrice, modifications)
	if err != nil {
		return nil, err
	}
	if !item.price.IsEqual(price) {
		return nil, errs.NewValueIsInvalidErrorWithCause("line item price",
			fmt.Errorf("stored %s does not match computed %s", price, item.price))
	}
	return item, nil
}

func (li *LineItem) Validate() error {
	if li == nil {
		return ErrLineItemIsNotConstructed
	}
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

func (li *LineItem) ID() kernel.UUID {
	return li.id
}

func (li *LineItem) MenuItemID() kernel.UUID {
	return li.menuItemID
}

func (li *LineItem) BasePrice() kernel.Money {
	return li.basePrice
}

// Modifications returns a copy of the selected modifications.
func (li *LineItem) Modifications() []Modification {
	return append([]Modification(nil), li.modifications...)
}

// Price is the snapshot price: base price plus all options.
func (li *LineItem) Price() kernel.Money {
	return li.price
}

func (li *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

func (li *LineItem) setMenuItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("menu item", err)
	}
	li.menuItemID = id
	return nil
}

func (li *LineItem) setModifications(modifications []Modification) error {
	for _, m := range modifications {
		if len(m.Options) == 0 {
			return errs.NewValueIsRequiredErrorWithCause("modification options",
				fmt.Errorf("modification %q selects no option", m.Name))
		}
	}
	li.modifications = append([]Modification(nil), modifications...)
	return nil
}

func computePrice(base kernel.Money, modifications []Modification) kernel.Money {
	price := base
	for _, m := range modifications {
		price = price.Add(m.Price())
	}
	return price
}
