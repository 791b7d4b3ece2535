package entry

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/classifier"
	"despesas/internal/core"
)

var today = core.NewDate(2025, 5, 14)

func TestParse(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		item        string
		amount      string
		description string
	}{
		{"dot amount", "Café - 2.50", "Café", "2.50", ""},
		{"comma amount", "Café - 2,50", "Café", "2.50", ""},
		{"with description", "Café - 2.50 - café com amigos", "Café", "2.50", "café com amigos"},
		{"item keeps separator", "Bilhete - Lisboa - 12 - comboio", "Bilhete - Lisboa", "12", "comboio"},
		{"surrounding spaces", "  Uber   - 7  ", "Uber", "7", ""},
		{"integer amount", "Renda - 650", "Renda", "650", ""},
		{"zero amount", "Amostra - 0", "Amostra", "0", ""},
		{"negative amount", "Reembolso - -5", "Reembolso", "-5", ""},
		{"rounded to cents", "Gasolina - 1,235", "Gasolina", "1.24", ""},
		{"sub-cent rounds away", "Pastilha - 0.004", "Pastilha", "0", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Parse(tc.in, today)
			require.NoError(t, err)
			assert.Equal(t, tc.item, e.Item)
			assert.True(t, decimal.RequireFromString(tc.amount).Equal(e.Amount), "amount %s", e.Amount)
			assert.Equal(t, tc.description, e.Description)
			assert.Equal(t, today, e.Date)
			assert.Equal(t, classifier.Classify(tc.item), e.Category)
		})
	}
}

func TestParseDescriptionWithSeparator(t *testing.T) {
	// Splitting starts from the right, so a separator inside the description
	// leaves a non-numeric amount segment.
	_, err := Parse("Hotel Porto - 120 - fim de semana - com a família", today)
	assert.ErrorIs(t, err, core.ErrFormat)
}

func TestParseCategoryDrivenByItemOnly(t *testing.T) {
	e, err := Parse("Café - 2,50", today)
	require.NoError(t, err)
	assert.Equal(t, classifier.Classify("Café"), e.Category)
	assert.True(t, decimal.RequireFromString("2.5").Equal(e.Amount))

	// The description mentions a transport keyword but does not affect the category.
	e, err = Parse("Livro - 15 - comprado depois do uber", today)
	require.NoError(t, err)
	assert.Equal(t, core.Lazer, e.Category)
}

func TestParseFormatErrors(t *testing.T) {
	for _, in := range []string{
		"Jantar fora",
		"",
		"Café -2.50",
		"Café - abc",
		"Café - ",
		" - 5",
		"Café - 1.2.3",
		"Café - 1e5",
		"x - 1e999999999",
		"x - 1e20000000 - descrição",
	} {
		_, err := Parse(in, today)
		assert.ErrorIs(t, err, core.ErrFormat, "input %q", in)
	}
}

func TestSplitRight(t *testing.T) {
	assert.Equal(t, []string{"a"}, splitRight("a", " - ", 3))
	assert.Equal(t, []string{"a", "b"}, splitRight("a - b", " - ", 3))
	assert.Equal(t, []string{"a", "b", "c"}, splitRight("a - b - c", " - ", 3))
	assert.Equal(t, []string{"a - b", "c", "d"}, splitRight("a - b - c - d", " - ", 3))
	assert.Equal(t, []string{"", "x"}, splitRight(" - x", " - ", 3))
}
