package ledger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestParseCalendarDate(t *testing.T) {
	d, err := ledger.ParseCalendarDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-29"), d)

	for _, bad := range []string{"", "2024-02-30", "29/02/2024", "mañana"} {
		_, err := ledger.ParseCalendarDate(bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%q debe ser inválida", bad)
	}
}

func TestParseQuantity(t *testing.T) {
	n, err := ledger.ParseQuantity("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	for _, bad := range []string{"", "0", "-1", "2.5", "diez"} {
		_, err := ledger.ParseQuantity(bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%q debe ser inválida", bad)
	}
}

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"10", 10, true},
		{`"10"`, 10, true},
		{"7.0", 7, true},
		{"", 0, true},
		{"null", 0, true},
		{`"abc"`, 0, false},
	}
	for _, tc := range cases {
		n, ok := ledger.CoerceInt(tc.raw)
		assert.Equal(t, tc.want, n, tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
	}
}
