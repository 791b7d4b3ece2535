package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"despesas/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMonthSummary(t *testing.T) {
	summary := core.CategorySummary{
		{Category: core.AlimentacaoFora, Amount: dec("33.9")},
		{Category: core.Casa, Amount: dec("690.1")},
	}
	want := "Resumo de despesas para o mês de maio:\n" +
		"Alimentação fora de casa: 33.90€\n" +
		"Casa: 690.10€\n" +
		"\n📉 Total de despesas: 724.00€" +
		"\n🐷 Poupança: 776.00€"
	assert.Equal(t, want, MonthSummary("maio", summary, dec("1500")))
}

func TestMonthSummaryOverspend(t *testing.T) {
	got := MonthSummary("junho", core.CategorySummary{{Category: core.Casa, Amount: dec("1600")}}, dec("1500"))
	assert.Contains(t, got, "📉 Total de despesas: 1600.00€")
	assert.Contains(t, got, "🐷 Poupança: -100.00€")
}

func TestAllMonths(t *testing.T) {
	monthly := core.MonthlySummary{
		{Month: 4, ByCategory: core.CategorySummary{{Category: core.Mobilidade, Amount: dec("7.2")}}},
		{Month: 5, ByCategory: core.CategorySummary{{Category: core.Casa, Amount: dec("10")}}},
	}
	want := "Resumo de despesas por mês:\n" +
		"\nMês de abril:\n" +
		"Mobilidade: 7.20€\n" +
		"📉 Total de despesas: 7.20€\n" +
		"🐷 Poupança: 1492.80€\n" +
		"\nMês de maio:\n" +
		"Casa: 10.00€\n" +
		"📉 Total de despesas: 10.00€\n" +
		"🐷 Poupança: 1490.00€\n"
	assert.Equal(t, want, AllMonths(monthly, dec("1500")))
}

func TestAllMonthsEmpty(t *testing.T) {
	assert.Equal(t, "Resumo de despesas por mês:\n\n"+MsgNothingRecorded, AllMonths(nil, dec("1500")))
}

func TestExpenseList(t *testing.T) {
	records := []core.Expense{
		{Date: core.NewDate(2025, 5, 1), Item: "Renda", Amount: dec("650"), Category: core.Casa},
		{Date: core.NewDate(2025, 5, 3), Item: "Café", Amount: dec("2.5"), Category: core.AlimentacaoFora, Description: "com amigos"},
	}
	want := "Despesas para o mês de maio:\n\n" +
		"Item | Montante | Categoria | Descrição\n" +
		"-------------------------------------------\n" +
		"Renda | 650.00€ | Casa | \n" +
		"Café | 2.50€ | Alimentação fora de casa | com amigos\n"
	assert.Equal(t, want, ExpenseList("maio", records))
}

func TestRecorded(t *testing.T) {
	e := core.Expense{Date: core.NewDate(2025, 5, 3), Item: "Café", Amount: dec("2.5"), Category: core.AlimentacaoFora}
	assert.Equal(t, "✅ Added: Café - 2.50 € on 2025-05-03", Recorded(e))

	e.Description = "com amigos"
	assert.Equal(t, "✅ Added: Café - 2.50 € on 2025-05-03 - Description: com amigos", Recorded(e))
}

func TestSeries(t *testing.T) {
	s := Series(core.CategorySummary{
		{Category: core.Casa, Amount: dec("30")},
		{Category: core.Lazer, Amount: dec("12.5")},
	})
	assert.Equal(t, []string{"Casa", "Lazer"}, s.Labels)
	assert.Equal(t, []float64{30, 12.5}, s.Values)

	empty := Series(nil)
	assert.Empty(t, empty.Labels)
	assert.Empty(t, empty.Values)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Gráfico de despesas para o mês de Março", ChartCaption("março"))
	assert.Equal(t, "❌ Não há despesas registradas para o mês de maio.", NoData("maio"))
	assert.Equal(t, "❌ Por favor, forneça o mês (ex: grafico maio).", MissingMonth("grafico"))
}
