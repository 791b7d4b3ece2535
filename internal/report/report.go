// Package report renders aggregation results as chat replies and chart series.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"despesas/internal/aggregate"
	"despesas/internal/core"
)

// User-facing messages.
const (
	MsgUsage            = "❌ Formato inválido. Exemplo: Café - 2.50 - café com amigos"
	MsgInvalidMonth     = "❌ Mês inválido. Use um mês válido (ex: maio)."
	MsgStoreUnavailable = "❌ Não foi possível aceder às despesas. Tenta novamente mais tarde."
	MsgNothingRecorded  = "Ainda não há despesas registradas."
	MsgHelp             = "Envia uma despesa no formato ITEM - MONTANTE[ - DESCRIÇÃO], por exemplo:\n" +
		"Café - 2.50 - café com amigos\n\n" +
		"Comandos:\n" +
		"/resumo [mês] - totais por categoria\n" +
		"/despesas <mês> - lista das despesas do mês\n" +
		"/grafico <mês> - gráfico por categoria"
)

// ChartSeries is the numeric input of a pie chart: one slice per category.
type ChartSeries struct {
	Labels []string
	Values []float64
}

// MissingMonth asks for the month argument of a command, e.g. "despesas".
func MissingMonth(command string) string {
	return fmt.Sprintf("❌ Por favor, forneça o mês (ex: %s maio).", command)
}

// NoData is the neutral reply for a month without records.
func NoData(monthName string) string {
	return fmt.Sprintf("❌ Não há despesas registradas para o mês de %s.", monthName)
}

// Recorded confirms a stored expense.
func Recorded(e core.Expense) string {
	msg := fmt.Sprintf("✅ Added: %s - %s € on %s", e.Item, core.FormatAmount(e.Amount), e.Date)
	if e.Description != "" {
		msg += " - Description: " + e.Description
	}
	return msg
}

// MonthSummary renders the category totals of one month with total and savings.
func MonthSummary(monthName string, summary core.CategorySummary, budget decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resumo de despesas para o mês de %s:\n", monthName)
	writeCategories(&b, summary)
	total, savings := aggregate.TotalAndSavings(summary, budget)
	fmt.Fprintf(&b, "\n📉 Total de despesas: %s", core.FormatEuros(total))
	fmt.Fprintf(&b, "\n🐷 Poupança: %s", core.FormatEuros(savings))
	return b.String()
}

// AllMonths renders every month present, in calendar order, each with its
// own total and savings.
func AllMonths(monthly core.MonthlySummary, budget decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("Resumo de despesas por mês:\n")
	if len(monthly) == 0 {
		b.WriteString("\n" + MsgNothingRecorded)
		return b.String()
	}
	for _, ms := range monthly {
		fmt.Fprintf(&b, "\nMês de %s:\n", core.MonthName(ms.Month))
		writeCategories(&b, ms.ByCategory)
		total, savings := aggregate.TotalAndSavings(ms.ByCategory, budget)
		fmt.Fprintf(&b, "📉 Total de despesas: %s\n", core.FormatEuros(total))
		fmt.Fprintf(&b, "🐷 Poupança: %s\n", core.FormatEuros(savings))
	}
	return b.String()
}

// ExpenseList renders an itemised table of one month's records.
func ExpenseList(monthName string, records []core.Expense) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Despesas para o mês de %s:\n\n", monthName)
	b.WriteString("Item | Montante | Categoria | Descrição\n")
	b.WriteString("-------------------------------------------\n")
	for _, e := range records {
		fmt.Fprintf(&b, "%s | %s | %s | %s\n", e.Item, core.FormatEuros(e.Amount), e.Category, e.Description)
	}
	return b.String()
}

// Series converts a summary into chart labels and values, in summary order.
func Series(summary core.CategorySummary) ChartSeries {
	s := ChartSeries{
		Labels: make([]string, 0, len(summary)),
		Values: make([]float64, 0, len(summary)),
	}
	for _, ca := range summary {
		s.Labels = append(s.Labels, ca.Category.String())
		s.Values = append(s.Values, ca.Amount.InexactFloat64())
	}
	return s
}

// ChartCaption captions the pie chart of a month.
func ChartCaption(monthName string) string {
	return "Gráfico de despesas para o mês de " + core.Capitalize(monthName)
}

func writeCategories(b *strings.Builder, summary core.CategorySummary) {
	for _, ca := range summary {
		fmt.Fprintf(b, "%s: %s\n", ca.Category, core.FormatEuros(ca.Amount))
	}
}
