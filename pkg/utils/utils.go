package utils

import (
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// MonthlyInstallment estimates the flat-interest monthly installment
// Formula: (Principal + Interest) / Duration
func MonthlyInstallment(principal decimal.Decimal, annualRatePercent decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	tenure := decimal.NewFromInt(int64(months))
	years := tenure.Div(monthsInYear)
	totalInterest := principal.Mul(annualRatePercent).Div(hundred).Mul(years)
	totalAmount := principal.Add(totalInterest)

	// Round to 2 decimal places
	return totalAmount.Div(tenure).Round(2)
}
