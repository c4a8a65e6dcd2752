package service

import "github.com/shopspring/decimal"

// Money columns are NUMERIC(20,2).
const (
	maxAmountDigits = 18
	maxAmountScale  = 2
)

// checkAmount rejects values a money column cannot hold exactly. It only looks
// at the coefficient and exponent, so oversized input is refused before any
// arithmetic touches it.
func checkAmount(field string, d decimal.Decimal) error {
	exp := d.Exponent()
	if d.NumDigits()+int(exp) > maxAmountDigits {
		return validationf("%s must have at most %d integer digits", field, maxAmountDigits)
	}
	if exp < -maxAmountScale && (exp < -maxAmountDigits || !d.Truncate(maxAmountScale).Equal(d)) {
		return validationf("%s must have at most %d decimal places", field, maxAmountScale)
	}
	return nil
}

// positiveAmount is checkAmount for values that must be above zero
func positiveAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return validationf("%s must be positive", field)
	}
	return checkAmount(field, d)
}
