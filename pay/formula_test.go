package pay_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/pay"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestDeriveHourlyRate(t *testing.T) {
	assertDec(t, "201.92", pay.DeriveHourlyRate(35000))
	assertDec(t, "0", pay.DeriveHourlyRate(0))
	// 52000 * 12 / 52 / 40 = 300 exactly
	assertDec(t, "300", pay.DeriveHourlyRate(52000))
}

func TestEvaluateFormula(t *testing.T) {
	tests := []struct {
		formula string
		salary  string
		want    string
	}{
		{"*12/52/40", "35000", "201.92"},
		{"x12÷52÷40", "35000", "201.92"},
		{"×12 / 52 / 40", "35000", "201.92"},
		{"/52/37.5", "39000", "20"},
		{"+1000*2", "1000", "3000"},
		{"*(1+0.5)", "100", "150"},
		{"- -10", "5", "15"},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := pay.EvaluateFormula(tt.formula, dec(tt.salary))
			require.NoError(t, err)
			assertDec(t, tt.want, got.Round(2))
		})
	}
}

func TestValidateFormula_Rejects(t *testing.T) {
	for _, f := range []string{
		"",
		"*",
		"/0",
		"*12/(52-52)",
		"*12/52/",
		"12",
		"*abc",
		"*1.2.3",
		"*(12",
		"*12)",
		"; alert(1)",
	} {
		t.Run(f, func(t *testing.T) {
			assert.ErrorIs(t, pay.ValidateFormula(f), pay.ErrInvalidFormula)
		})
	}
}

func TestRateFromFormula_EmptyMeansDefault(t *testing.T) {
	got, err := pay.RateFromFormula("  ", 35000)
	require.NoError(t, err)
	assertDec(t, "201.92", got)
}
