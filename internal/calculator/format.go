package calculator

import "github.com/shopspring/decimal"

// RoundCents rounds an amount to two decimal places, half away from zero.
// Float formatting rounds the binary value instead (1.005 prints as 1.00).
func RoundCents(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// FormatAmount renders an amount for display, e.g. "$10.00".
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
