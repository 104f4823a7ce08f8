package pay

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with its currency symbol, two decimal
// places and thousands separators: £1,234.50, -£3.10.
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + currency + groupThousands(whole) + "." + frac
}

// FormatHours renders hours without trailing zeros: 7.5, 8.
func FormatHours(h decimal.Decimal) string {
	return h.Round(2).String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
