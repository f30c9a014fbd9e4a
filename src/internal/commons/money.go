package commons

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// FormatMoney renders amount in the conventional display of currency, e.g.
// "$1,234.50" for USD. Amounts are rounded to the currency's minor unit.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	formatter := cur.Formatter()

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.LessThanOrEqual(maxMinorUnits) && minor.GreaterThanOrEqual(minMinorUnits) {
		return formatter.Format(minor.IntPart())
	}
	return formatDigits(formatter, minor.Abs().String(), minor.IsNegative())
}

// formatDigits lays out a minor-unit digit string beyond the int64 range the
// same way money.Formatter does.
func formatDigits(f *money.Formatter, digits string, negative bool) string {
	if len(digits) <= f.Fraction {
		digits = strings.Repeat("0", f.Fraction-len(digits)+1) + digits
	}

	if f.Thousand != "" {
		for i := len(digits) - f.Fraction - 3; i > 0; i -= 3 {
			digits = digits[:i] + f.Thousand + digits[i:]
		}
	}
	if f.Fraction > 0 {
		digits = digits[:len(digits)-f.Fraction] + f.Decimal + digits[len(digits)-f.Fraction:]
	}

	out := strings.Replace(f.Template, "1", digits, 1)
	out = strings.Replace(out, "$", f.Grapheme, 1)
	if negative {
		out = "-" + out
	}
	return out
}
