package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "100", "100", true},
		{"decimal", "12.5", "12.5", true},
		{"grouped", "1,234.50", "1234.5", true},
		{"padded", "  42 ", "42", true},
		{"negative", "-3", "-3", true},
		{"empty", "", "0", false},
		{"text", "pending", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Rs. 0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "Rs. 100.00", FormatMoney(decimal.NewFromInt(100)))
	assert.Equal(t, "Rs. 1,234.50", FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "Rs. 1,000,000.01", FormatMoney(decimal.RequireFromString("1000000.009")))
	assert.Equal(t, "Rs. 999.99", FormatMoney(decimal.RequireFromString("999.99")))
}

func TestFormatAmount_LargeValuesAreExact(t *testing.T) {
	assert.Equal(t, "12,345,678,901,234,567.89", FormatAmount(decimal.RequireFromString("12345678901234567.89")))
	assert.Equal(t, "-12,345,678,901,234,567.89", FormatAmount(decimal.RequireFromString("-12345678901234567.89")))
	assert.Equal(t, "-1,234.50", FormatAmount(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, "-0.50", FormatAmount(decimal.RequireFromString("-0.5")))
	assert.Equal(t, "Rs. 12,345,678,901,234,567.89", FormatStoredAmount("12345678901234567.89"))
}

func TestFormatStoredAmount(t *testing.T) {
	assert.Equal(t, "Rs. 2,500.00", FormatStoredAmount("2500"))
	assert.Equal(t, "TBD", FormatStoredAmount("TBD"))
	assert.Equal(t, "", FormatStoredAmount(""))
}
