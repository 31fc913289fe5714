package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"20", 2000},
		{"20.5", 2050},
		{"20.00", 2000},
		{"0.99", 99},
		{".50", 50},
		{" 15.25 ", 1525},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := ParsePriceCents(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParsePriceCentsRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "1.234", "1.2.3", "1,50"} {
		_, err := ParsePriceCents(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "20.00", FormatCents(2000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "1.99", FormatCents(199))
	assert.Equal(t, "0.00", FormatCents(0))
}
