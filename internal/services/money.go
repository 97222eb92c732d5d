package services

import "github.com/shopspring/decimal"

// convertToKz converts a USD amount to whole kwanzas, rounding half up
func convertToKz(usd, rate decimal.Decimal) decimal.Decimal {
	return usd.Mul(rate).Round(0)
}
