package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Currency string          `json:"currency" validate:"required,iso4217"`
	Qty      decimal.Decimal `json:"qty" validate:"gte=0"`
}

func TestStruct_Valido(t *testing.T) {
	assert.NoError(t, Struct(sample{Currency: "GHS", Qty: decimal.NewFromInt(3)}))
}

func TestStruct_ReportaCamposConNombreJSON(t *testing.T) {
	err := Struct(sample{Currency: "XXXX", Qty: decimal.NewFromInt(-1)})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "sample.currency", verr.Fields[0].Field)
	assert.Equal(t, "iso4217", verr.Fields[0].Rule)
	assert.Equal(t, "sample.qty", verr.Fields[1].Field)
	assert.Equal(t, "gte", verr.Fields[1].Rule)
}

type priced struct {
	Rate *decimal.Decimal `json:"rate" validate:"omitempty,money,gte=0"`
	Qty  decimal.Decimal  `json:"qty" validate:"money"`
}

func TestStruct_MontoFueraDeRango(t *testing.T) {
	huge := decimal.New(1, 50000000)
	err := Struct(priced{Rate: &huge, Qty: decimal.New(5, -60)})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "priced.rate", verr.Fields[0].Field)
	assert.Equal(t, "money", verr.Fields[0].Rule)
	assert.Equal(t, "priced.qty", verr.Fields[1].Field)
	assert.Equal(t, "money", verr.Fields[1].Rule)

	ok := decimal.RequireFromString("12.5")
	assert.NoError(t, Struct(priced{Rate: &ok, Qty: decimal.NewFromInt(3)}))
	assert.NoError(t, Struct(priced{Qty: decimal.Zero}))
}
