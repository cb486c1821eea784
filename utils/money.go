package utils

import "github.com/shopspring/decimal"

// FormatMoney renders amount with two decimals, e.g. 210 -> "210.00".
func FormatMoney(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
