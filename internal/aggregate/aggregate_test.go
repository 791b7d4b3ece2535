package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/core"
)

func rec(year, month, day int, item, amount string, c core.Category) core.Expense {
	return core.Expense{
		Date:     core.NewDate(year, month, day),
		Item:     item,
		Amount:   decimal.RequireFromString(amount),
		Category: c,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixture() []core.Expense {
	return []core.Expense{
		rec(2025, 5, 1, "Renda", "650", core.Casa),
		rec(2025, 5, 3, "Café", "2.50", core.AlimentacaoFora),
		rec(2025, 4, 28, "Uber", "7.20", core.Mobilidade),
		rec(2025, 5, 9, "Luz", "40.10", core.Casa),
		rec(2025, 7, 2, "Cinema", "8", core.Lazer),
		rec(2025, 5, 20, "Jantar", "31.40", core.AlimentacaoFora),
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	_, err := SummarizeMonth(nil, 5)
	assert.ErrorIs(t, err, core.ErrNoDataForMonth)

	_, err = SummarizeMonth(fixture(), 1)
	assert.ErrorIs(t, err, core.ErrNoDataForMonth)
}

func TestSummarizeMonthSumsByCategory(t *testing.T) {
	records := []core.Expense{
		rec(2025, 3, 1, "Renda", "10.00", core.Casa),
		rec(2025, 3, 2, "Água", "20.00", core.Casa),
	}
	s, err := SummarizeMonth(records, 3)
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, core.Casa, s[0].Category)
	assert.True(t, dec("30.00").Equal(s[0].Amount))
}

func TestSummarizeMonthOrderIsAlphabetical(t *testing.T) {
	s, err := SummarizeMonth(fixture(), 5)
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, core.AlimentacaoFora, s[0].Category)
	assert.True(t, dec("33.90").Equal(s[0].Amount))
	assert.Equal(t, core.Casa, s[1].Category)
	assert.True(t, dec("690.10").Equal(s[1].Amount))
}

func TestSummarizeAllOmitsEmptyMonths(t *testing.T) {
	all := SummarizeAll(fixture())
	assert.Equal(t, []int{4, 5, 7}, all.Months())

	may, ok := all.Month(5)
	require.True(t, ok)
	amt, ok := may.Get(core.Casa)
	require.True(t, ok)
	assert.True(t, dec("690.10").Equal(amt))

	_, ok = all.Month(6)
	assert.False(t, ok)

	for _, ms := range all {
		assert.NotEmpty(t, ms.ByCategory, "month %d", ms.Month)
	}
}

func TestSummarizeAllEmpty(t *testing.T) {
	assert.Empty(t, SummarizeAll(nil))
}

func TestSummarizeAllMergesYears(t *testing.T) {
	records := []core.Expense{
		rec(2024, 5, 1, "Renda", "600", core.Casa),
		rec(2025, 5, 1, "Renda", "650", core.Casa),
	}
	all := SummarizeAll(records)
	require.Len(t, all, 1)
	amt, _ := all[0].ByCategory.Get(core.Casa)
	assert.True(t, dec("1250").Equal(amt))
}

func TestSummarizeMonthMatchesSummarizeAll(t *testing.T) {
	records := fixture()
	for _, ms := range SummarizeAll(records) {
		s, err := SummarizeMonth(records, ms.Month)
		require.NoError(t, err)
		assert.Equal(t, len(ms.ByCategory), len(s))
		assert.True(t, ms.ByCategory.Total().Equal(s.Total()))
	}
}

func TestTotalAndSavings(t *testing.T) {
	total, savings := TotalAndSavings(core.CategorySummary{{Category: core.Casa, Amount: dec("1600.00")}}, dec("1500"))
	assert.True(t, dec("1600.00").Equal(total))
	assert.True(t, dec("-100.00").Equal(savings))

	total, savings = TotalAndSavings(nil, DefaultBudget)
	assert.True(t, total.IsZero())
	assert.True(t, DefaultBudget.Equal(savings))
}

func TestListMonthPreservesStoreOrder(t *testing.T) {
	list, err := ListMonth(fixture(), 5)
	require.NoError(t, err)
	items := make([]string, 0, len(list))
	for _, e := range list {
		items = append(items, e.Item)
	}
	assert.Equal(t, []string{"Renda", "Café", "Luz", "Jantar"}, items)

	_, err = ListMonth(fixture(), 12)
	assert.ErrorIs(t, err, core.ErrNoDataForMonth)
}
