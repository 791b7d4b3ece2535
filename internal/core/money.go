// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by users
// or read back from a store, and for rendering them for display.
package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern is plain positional notation. Exponents are refused: a
// huge one expands into millions of digits when the amount is formatted.
var amountPattern = regexp.MustCompile(`^[+-]?[0-9]+([.,][0-9]+)?$`)

// ParseAmount converts a decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Sign is
// preserved and zero is accepted; callers that need a positive amount must
// check it themselves. Scientific notation is rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("2,50")  -> 2.50, nil
//	ParseAmount("-3")    -> -3, nil
//	ParseAmount("1e5")   -> 0, error
//	ParseAmount("abc")   -> 0, error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals, e.g. "12.30".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatEuros renders an amount with two decimals and the euro suffix, e.g. "12.30€".
func FormatEuros(d decimal.Decimal) string {
	return FormatAmount(d) + "€"
}
