package setting_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/setting"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func TestSetting_Update(t *testing.T) {
	admin := kernel.NewUUID()

	t.Run("keeps previous name and value", func(t *testing.T) {
		s, err := setting.NewSetting(kernel.NewUUID(), setting.PrepDefaultMinutes, "20", t0)
		require.NoError(t, err)

		err = s.Update("", "25", admin, t0.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, setting.PrepDefaultMinutes, s.Name())
		assert.Equal(t, "25", s.Value())
		assert.Equal(t, setting.PrepDefaultMinutes, s.PrevName())
		assert.Equal(t, "20", s.PrevValue())
		assert.True(t, s.ModifiedBy().IsEqual(admin))
		assert.Equal(t, t0.Add(time.Minute), s.ModifiedAt())
	})

	t.Run("rename", func(t *testing.T) {
		s, err := setting.NewSetting(kernel.NewUUID(), "prep.minutes", "20", t0)
		require.NoError(t, err)

		require.NoError(t, s.Update(setting.PrepDefaultMinutes, "20", admin, t0))

		assert.Equal(t, setting.PrepDefaultMinutes, s.Name())
		assert.Equal(t, "prep.minutes", s.PrevName())
	})

	t.Run("requires the modifier", func(t *testing.T) {
		s, err := setting.NewSetting(kernel.NewUUID(), "x", "1", t0)
		require.NoError(t, err)

		err = s.Update("", "2", kernel.UUID{}, t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, "1", s.Value())
	})
}

func TestSetting_Minutes(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr error
	}{
		{value: "20", want: 20 * time.Minute},
		{value: " 5 ", want: 5 * time.Minute},
		{value: "soon", wantErr: errs.ErrValueIsInvalid},
		{value: "-3", wantErr: errs.ErrValueIsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			s, err := setting.NewSetting(kernel.NewUUID(), setting.PrepDefaultMinutes, tt.value, t0)
			require.NoError(t, err)

			got, err := s.Minutes()

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSetting_RequiresName(t *testing.T) {
	_, err := setting.NewSetting(kernel.NewUUID(), " ", "1", t0)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
