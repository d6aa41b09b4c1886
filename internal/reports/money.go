package reports

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencyPrefix = "Rs. "

// ParseAmount parses a stored amount string. Values that are not numbers
// report ok=false and count as zero.
func ParseAmount(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatAmount renders d with thousands grouping and exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatMoney renders d as a currency amount, e.g. "Rs. 1,234.50".
func FormatMoney(d decimal.Decimal) string {
	return currencyPrefix + FormatAmount(d)
}

// FormatStoredAmount renders a raw amount string: numbers are formatted as money,
// anything else is shown verbatim.
func FormatStoredAmount(s string) string {
	d, ok := ParseAmount(s)
	if !ok {
		return s
	}
	return FormatMoney(d)
}
