package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{name: "zero", amount: decimal.Zero},
		{name: "whole amount", amount: decimal.NewFromInt(10)},
		{name: "cents", amount: decimal.RequireFromString("12.99")},
		{name: "trailing zeros", amount: decimal.RequireFromString("3.500")},
		{name: "negative", amount: decimal.RequireFromString("-0.01"), wantErr: errs.ErrValueIsOutOfRange},
		{name: "sub-cent", amount: decimal.RequireFromString("1.005"), wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := kernel.NewMoney(tt.amount)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Decimal().Equal(tt.amount))
		})
	}
}

func TestMoneyFromString(t *testing.T) {
	t.Run("parses decimal text", func(t *testing.T) {
		assert.Equal(t, "12.50", mustMoney(t, "12.5").String())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.MoneyFromString("twelve")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoneyFromCents(t *testing.T) {
	m, err := kernel.MoneyFromCents(1250)

	require.NoError(t, err)
	assert.Equal(t, "12.50", m.String())
	assert.Equal(t, int64(1250), m.Cents())
}

func TestMoney_Arithmetic(t *testing.T) {
	base := mustMoney(t, "10.00")
	option := mustMoney(t, "2.00")

	t.Run("add is exact", func(t *testing.T) {
		sum := mustMoney(t, "0.10").Add(mustMoney(t, "0.20"))

		assert.True(t, sum.IsEqual(mustMoney(t, "0.30")))
		assert.True(t, base.Add(option).IsEqual(mustMoney(t, "12")))
	})

	t.Run("sub down to zero", func(t *testing.T) {
		diff, err := base.Sub(base)

		require.NoError(t, err)
		assert.True(t, diff.IsZero())
	})

	t.Run("sub below zero fails", func(t *testing.T) {
		_, err := option.Sub(base)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value behaves as zero", func(t *testing.T) {
		var zero kernel.Money

		assert.True(t, zero.IsZero())
		assert.True(t, zero.IsEqual(kernel.ZeroMoney()))
		assert.Equal(t, "0.00", zero.String())
		assert.True(t, zero.Add(option).IsEqual(option))
	})
}
