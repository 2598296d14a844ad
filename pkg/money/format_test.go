package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat_CodigoISO(t *testing.T) {
	got := Format(decimal.RequireFromString("1234.5"), "USD")
	assert.Contains(t, got, "1,234")
	assert.Contains(t, got, "$")
}

func TestFormat_CodigoDesconocido(t *testing.T) {
	got := Format(decimal.NewFromInt(1000), "ZZ")
	assert.Contains(t, got, "ZZ ")
	assert.Contains(t, got, "1,000")
}
