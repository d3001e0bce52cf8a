// Package core provides the fee calculator's domain types and the pure
// functions that turn a list of fee rows into a displayable total.
//
// This file contains value parsing and summing. Values are kept as exact
// decimals so that a total of 0.1 and 0.2 reads 0.3.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the decimal exponent of a value. Summing values whose
// exponents are far apart costs time proportional to the gap.
const maxExponent = 340

// ParseValue converts a numeric input string into a decimal.
//
// It accepts what a browser number input submits: an optional sign, digits,
// an optional dot fraction and an optional exponent. Thousands separators and
// decimal commas are rejected so that "1,000" is never read as 1. The value
// must fit a float64 and its exponent must stay within ±maxExponent.
//
// Examples:
//
//	ParseValue("100")    -> 100, nil
//	ParseValue(" 12.5 ") -> 12.5, nil
//	ParseValue("1e3")    -> 1000, nil
//	ParseValue("1,000")  -> 0, ErrInvalidValue
//	ParseValue("1e400")  -> 0, ErrInvalidValue
func ParseValue(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingValue
	}
	if strings.ContainsAny(s, ", _") {
		return decimal.Zero, ErrInvalidValue
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, ErrInvalidValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidValue
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Zero, ErrInvalidValue
	}
	return d, nil
}

// Sum folds the item values left to right starting from zero.
func Sum(items []FeeItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value)
	}
	return total
}
