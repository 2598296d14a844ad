package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInRange(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"1234.56", true},
		{"-0.005", true},
		{"1e28", true},
		{"1e29", false},
		{"1e50000000", false},
		{"1e-50000000", false},
		{"12345678901234567890123456789012345678901", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InRange(decimal.RequireFromString(tc.in)), tc.in)
	}
}
