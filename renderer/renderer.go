// Package renderer formats statements, measures and ratios as markdown,
// ready to print to a terminal or to pipe into a file.
package renderer

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount formats a monetary value in the given ISO currency, with the
// currency's own symbol, separators and fraction digits.
func Amount(value decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	units := value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(units)
}

// AmountFloat is Amount for float64 values (measures).
func AmountFloat(value float64, currency string) string {
	return Amount(decimal.NewFromFloat(value), currency)
}

// Number formats a plain number with the given number of decimals.
func Number(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}
