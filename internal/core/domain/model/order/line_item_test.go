package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewModification(t *testing.T) {
	t.Run("single option", func(t *testing.T) {
		m, err := order.NewModification("size", order.Option{Name: "large", Price: money(t, "1.50")})

		require.NoError(t, err)
		assert.Equal(t, "1.50", m.Price().String())
	})

	t.Run("grouped options are summed", func(t *testing.T) {
		m, err := order.NewModification("toppings",
			order.Option{Name: "olives", Price: money(t, "0.75")},
			order.Option{Name: "onions", Price: money(t, "0.50")},
			order.Option{Name: "basil", Price: kernel.ZeroMoney()},
		)

		require.NoError(t, err)
		assert.Equal(t, "1.25", m.Price().String())
	})

	t.Run("rejects empty selection", func(t *testing.T) {
		_, err := order.NewModification("toppings")

		assert.Equal(t, order.ErrModificationWithoutOptions, err)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := order.NewModification(" ", order.Option{Name: "x"})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = order.NewModification("size", order.Option{Name: ""})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestNewLineItem(t *testing.T) {
	menuItem := kernel.NewUUID()

	t.Run("price is base plus every option", func(t *testing.T) {
		cheese, _ := order.NewModification("cheese", order.Option{Name: "extra", Price: money(t, "2.00")})

		item, err := order.NewLineItem(kernel.NewUUID(), menuItem, money(t, "10.00"), []order.Modification{cheese})

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "12.00", item.Price().String())
		assert.Equal(t, "10.00", item.BasePrice().String())
		assert.True(t, item.MenuItemID().IsEqual(menuItem))
		assert.Len(t, item.Modifications(), 1)
	})

	t.Run("without modifications the base price applies", func(t *testing.T) {
		item, err := order.NewLineItem(kernel.NewUUID(), menuItem, money(t, "4.20"), nil)

		require.NoError(t, err)
		assert.Equal(t, "4.20", item.Price().String())
	})

	t.Run("reports every invalid argument", func(t *testing.T) {
		empty := order.Modification{Name: "sauce"}

		item, err := order.NewLineItem(kernel.UUID{}, kernel.UUID{}, money(t, "1"), []order.Modification{empty})

		require.Error(t, err)
		assert.Nil(t, item)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "menu item")
		assert.Contains(t, err.Error(), `modification "sauce" selects no option`)
	})

	t.Run("modifications are copied", func(t *testing.T) {
		size, _ := order.NewModification("size", order.Option{Name: "large", Price: money(t, "1")})
		mods := []order.Modification{size}
		item, _ := order.NewLineItem(kernel.NewUUID(), menuItem, money(t, "5"), mods)

		mods[0].Name = "changed"

		assert.Equal(t, "size", item.Modifications()[0].Name)
	})
}

func TestRestoreLineItem(t *testing.T) {
	size, _ := order.NewModification("size", order.Option{Name: "large", Price: money(t, "1.00")})
	id, menuItem := kernel.NewUUID(), kernel.NewUUID()

	t.Run("matching price restores", func(t *testing.T) {
		item, err := order.RestoreLineItem(id, menuItem, money(t, "3.00"), []order.Modification{size}, money(t, "4.00"))

		require.NoError(t, err)
		assert.True(t, item.ID().IsEqual(id))
	})

	t.Run("tampered price is rejected", func(t *testing.T) {
		_, err := order.RestoreLineItem(id, menuItem, money(t, "3.00"), []order.Modification{size}, money(t, "3.00"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestLineItem_ValidateZeroValue(t *testing.T) {
	var nilItem *order.LineItem
	assert.Equal(t, order.ErrLineItemIsNotConstructed, nilItem.Validate())

	assert.Equal(t, order.ErrLineItemIsNotConstructed, (&order.LineItem{}).Validate())
}
