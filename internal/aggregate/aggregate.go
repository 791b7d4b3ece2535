// Package aggregate computes per-category and per-month spending summaries
// from a set of expense records.
//
// Every function is pure. Category order in results is alphabetical by
// label and month order is ascending, so output is stable across runs.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"despesas/internal/core"
)

// DefaultBudget is the monthly spending threshold used to derive savings.
var DefaultBudget = decimal.NewFromInt(1500)

// SummarizeMonth sums amounts by category for the records dated in month.
// It returns core.ErrNoDataForMonth when no record falls in the month.
func SummarizeMonth(records []core.Expense, month int) (core.CategorySummary, error) {
	sums := map[core.Category]decimal.Decimal{}
	for _, e := range records {
		if e.Date.Month() != month {
			continue
		}
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	if len(sums) == 0 {
		return nil, core.ErrNoDataForMonth
	}
	return toSummary(sums), nil
}

// SummarizeAll groups records by month and category. Months without records
// are absent from the result.
func SummarizeAll(records []core.Expense) core.MonthlySummary {
	byMonth := map[int]map[core.Category]decimal.Decimal{}
	for _, e := range records {
		m := e.Date.Month()
		if byMonth[m] == nil {
			byMonth[m] = map[core.Category]decimal.Decimal{}
		}
		byMonth[m][e.Category] = byMonth[m][e.Category].Add(e.Amount)
	}

	out := make(core.MonthlySummary, 0, len(byMonth))
	for m, sums := range byMonth {
		out = append(out, core.MonthSummary{Month: m, ByCategory: toSummary(sums)})
	}
	slices.SortFunc(out, func(a, b core.MonthSummary) int { return cmp.Compare(a.Month, b.Month) })
	return out
}

// TotalAndSavings returns the summed spend and budget minus that spend.
// Savings go negative on overspend.
func TotalAndSavings(summary core.CategorySummary, budget decimal.Decimal) (total, savings decimal.Decimal) {
	total = summary.Total()
	return total, budget.Sub(total)
}

// ListMonth returns the records dated in month, in store order.
// It returns core.ErrNoDataForMonth when no record falls in the month.
func ListMonth(records []core.Expense, month int) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range records {
		if e.Date.Month() == month {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, core.ErrNoDataForMonth
	}
	return out, nil
}

func toSummary(sums map[core.Category]decimal.Decimal) core.CategorySummary {
	out := make(core.CategorySummary, 0, len(sums))
	for c, amt := range sums {
		out = append(out, core.CategoryAmount{Category: c, Amount: amt})
	}
	slices.SortFunc(out, func(a, b core.CategoryAmount) int { return cmp.Compare(a.Category, b.Category) })
	return out
}
