/*
Package money centralizes decimal arithmetic for salary computation.

PURPOSE:
  Every monetary amount and every work-hour quantity in the system flows
  through payroll math, where float64 drift would show up as off-by-a-cent
  payslips. All quantities are shopspring decimals, and rounding happens
  in exactly one place: Round2.

ROUNDING CONTRACT:
  Round2 rounds half-up to 2 decimal places. The payroll engine applies it
  at every derivation step (daily rate x present days, overtime pay, tax,
  net pay), never only at the end, so intermediate and displayed values
  always agree.
*/
package money

import "github.com/shopspring/decimal"

var (
	// Hundred is used for percentage math.
	Hundred = decimal.NewFromInt(100)

	// StandardWorkHours is the 8-hour standard day used for hourly-rate
	// derivation and the overtime threshold.
	StandardWorkHours = decimal.NewFromInt(8)

	// OvertimeMultiplier is applied to the hourly rate for overtime pay.
	OvertimeMultiplier = decimal.NewFromFloat(1.5)

	// TaxRate is the flat statutory tax applied to payable basic (5%).
	TaxRate = decimal.NewFromFloat(0.05)
)

// Round2 rounds half-up to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float64 input (API/config boundary) to a decimal.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// MustParse parses a stored decimal string, returning zero on malformed
// input rather than propagating a corrupt-row error into arithmetic.
func MustParse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// HoursBetweenMinutes converts a minute count to hours, rounded to 2dp.
func HoursBetweenMinutes(minutes int64) decimal.Decimal {
	return Round2(decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)))
}
