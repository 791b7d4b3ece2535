package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Months holds the Portuguese month names, January first. It is the only
// month table in the module; parsers, formatters and transports share it.
var Months = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(Months))
	for i, name := range Months {
		m[name] = i + 1
	}
	return m
}()

// Fold lower-cases s with Portuguese case mapping.
func Fold(s string) string {
	return cases.Lower(language.Portuguese).String(s)
}

// Capitalize upper-cases the first letter of a single word, e.g. "março" -> "Março".
func Capitalize(s string) string {
	return cases.Title(language.Portuguese).String(s)
}

// MonthNumber resolves a month name, case-insensitively, to 1-12.
func MonthNumber(name string) (int, error) {
	n, ok := monthIndex[Fold(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, name)
	}
	return n, nil
}

// MonthName returns the lower-case name for a month number, or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return Months[month-1]
}
