package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("ISO date", func(t *testing.T) {
		d, err := ParseDate("2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Display date", func(t *testing.T) {
		d, err := ParseDate("15.01.2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date")
	})
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	// 22:30 UTC is already the next day in Moscow
	now := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), Today(now, loc))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "4 дн.", FormatDays(4))
	assert.Equal(t, "800 ₽", FormatMoney(800))
	assert.Equal(t, "12 500 ₽", FormatMoney(12500))
	assert.Equal(t, "1 000 000 ₽", FormatMoney(1000000))
	assert.Equal(t, "-2 000 ₽", FormatMoney(-2000))
	assert.Equal(t, "800 ₽/день", FormatRate(800))
	assert.Equal(t, "10%", FormatDiscount(10))
	assert.Equal(t, "—", FormatDiscount(0))
	assert.Equal(t, "", FormatDate(nil))
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "05.03.2024", FormatDate(&d))
}
