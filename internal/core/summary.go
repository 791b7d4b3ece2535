package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// CategorySummary holds per-category sums for one scope, sorted by category label.
type CategorySummary []CategoryAmount

// MonthSummary is the category breakdown of a single month (1-12).
type MonthSummary struct {
	Month      int
	ByCategory CategorySummary
}

// MonthlySummary lists the months present in the data in ascending order.
type MonthlySummary []MonthSummary

// Total sums every category in the summary.
func (s CategorySummary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ca := range s {
		total = total.Add(ca.Amount)
	}
	return total
}

// Get returns the amount for a category and whether it is present.
func (s CategorySummary) Get(c Category) (decimal.Decimal, bool) {
	for _, ca := range s {
		if ca.Category == c {
			return ca.Amount, true
		}
	}
	return decimal.Zero, false
}

// Month returns the breakdown for a month and whether the month is present.
func (s MonthlySummary) Month(month int) (CategorySummary, bool) {
	for _, ms := range s {
		if ms.Month == month {
			return ms.ByCategory, true
		}
	}
	return nil, false
}

// Months lists the month numbers present, ascending.
func (s MonthlySummary) Months() []int {
	out := make([]int, 0, len(s))
	for _, ms := range s {
		out = append(out, ms.Month)
	}
	return out
}
