package model

import "github.com/shopspring/decimal"

func init() {
	// The backend reads and writes prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatMoney renders an amount for display, always with two decimal places
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
