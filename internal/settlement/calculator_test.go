package settlement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedCalculator() *Calculator {
	return NewCalculatorAt(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		in           Input
		wantTotal    string
		wantInsurer  string
		wantCustomer string
	}{
		{
			name:      "all risk within limit",
			in:        Input{PolicyType: "todo_riesgo", Limit: d("5000"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "363", wantCustomer: "0",
		},
		{
			name:      "all risk over limit",
			in:        Input{PolicyType: PolicyAllRisk, Limit: d("50"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "50", wantCustomer: "313",
		},
		{
			name:      "old car depreciates parts",
			in:        Input{PolicyType: PolicyAllRisk, Limit: d("5000"), Labor: d("100"), Parts: d("200"), Year: 2010},
			wantTotal: "314.6", wantInsurer: "314.6", wantCustomer: "0",
		},
		{
			name:      "third party pays nothing",
			in:        Input{PolicyType: PolicyThirdParty, Limit: d("5000"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "0", wantCustomer: "363",
		},
		{
			name:      "blank policy defaults to third party",
			in:        Input{Labor: d("100"), Parts: d("200")},
			wantTotal: "363", wantInsurer: "0", wantCustomer: "363",
		},
		{
			name:      "deductible then insurer",
			in:        Input{PolicyType: "TODO_RIESGO_FRANQUICIA", Limit: d("1000"), Deductible: d("300"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "63", wantCustomer: "300",
		},
		{
			name:      "cost under deductible",
			in:        Input{PolicyType: "FRANQUICIA", Limit: d("1000"), Deductible: d("500"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "0", wantCustomer: "363",
		},
		{
			name:      "deductible with rest over limit",
			in:        Input{PolicyType: "TODO_RIESGO_FRANQUICIA", Limit: d("50"), Deductible: d("300"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "50", wantCustomer: "313",
		},
		{
			name:      "unknown policy",
			in:        Input{PolicyType: "PREMIUM", Limit: d("5000"), Labor: d("100"), Parts: d("200"), Year: 2020},
			wantTotal: "363", wantInsurer: "0", wantCustomer: "363",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := fixedCalculator().Calculate(tt.in)
			require.NoError(t, err)
			assert.True(t, d(tt.wantTotal).Equal(res.Total), "total %s", res.Total)
			assert.True(t, d(tt.wantInsurer).Equal(res.InsurerPays), "insurer %s", res.InsurerPays)
			assert.True(t, d(tt.wantCustomer).Equal(res.CustomerPays), "customer %s", res.CustomerPays)
			assert.True(t, res.Total.Equal(res.InsurerPays.Add(res.CustomerPays)))
			assert.NotEmpty(t, res.Resolution)
		})
	}
}

func TestCalculate_Notes(t *testing.T) {
	res, err := fixedCalculator().Calculate(Input{PolicyType: "premium", Labor: d("1"), Parts: d("1"), Year: 2010})
	require.NoError(t, err)
	assert.Equal(t, 16, res.VehicleAge)
	assert.Equal(t, "Vehículo antiguo (16 años). Depreciación del 20% aplicada.", res.VehicleNote)
	assert.Equal(t, "Tipo de seguro 'PREMIUM' desconocido. Se rechaza cobertura por defecto.", res.Resolution)
}

func TestCalculate_ExactlyTenYearsIsModern(t *testing.T) {
	res, err := fixedCalculator().Calculate(Input{PolicyType: PolicyAllRisk, Limit: d("5000"), Labor: d("100"), Parts: d("200"), Year: 2016})
	require.NoError(t, err)
	assert.True(t, res.Depreciation.IsZero())
}

func TestCalculate_NegativeCost(t *testing.T) {
	_, err := fixedCalculator().Calculate(Input{Labor: d("-1"), Parts: d("10")})
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestCalculate_NegativePolicyAmounts(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"limit", Input{PolicyType: PolicyAllRisk, Limit: d("-500"), Labor: d("100"), Parts: d("100")}},
		{"deductible", Input{PolicyType: "TODO_RIESGO_FRANQUICIA", Limit: d("5000"), Deductible: d("-50"), Labor: d("100"), Parts: d("100")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := fixedCalculator().Calculate(tt.in)
			assert.ErrorIs(t, err, ErrNegativeAmount)
			assert.Nil(t, res)
		})
	}
}

func TestEuros(t *testing.T) {
	assert.Equal(t, "314.60€", Euros(d("314.6")))
	assert.Equal(t, "0.00€", Euros(decimal.Zero))
}
