// Package booking estimates booking transactions for the order panel when
// the marketplace cannot price them speculatively.
package booking

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an amount in the currency's minor unit.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// unitDivisor returns 10^scale for an ISO 4217 code, e.g. 100 for USD and
// 1 for JPY.
func unitDivisor(code string) (decimal.Decimal, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unknown currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return decimal.New(1, int32(scale)), nil
}

// toNumber converts minor units into a major-unit decimal.
func (m Money) toNumber() (decimal.Decimal, error) {
	divisor, err := unitDivisor(m.Currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromInt(m.Amount).Div(divisor), nil
}

// fromNumber converts a major-unit decimal into minor units, rounding half
// away from zero.
func fromNumber(value decimal.Decimal, code string) (Money, error) {
	divisor, err := unitDivisor(code)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: value.Mul(divisor).Round(0).IntPart(), Currency: strings.ToUpper(code)}, nil
}
