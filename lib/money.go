package lib

import "github.com/shopspring/decimal"

// FormatAmount renders an amount with two decimals, rounding half away from zero
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
