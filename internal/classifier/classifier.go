// Package classifier assigns a spending category to an item description.
//
// Classification is a strict priority cascade over an ordered rule table:
// the first rule with a keyword contained in the lower-cased text wins, and
// text that matches no rule falls back to core.Outros. Keyword overlap between
// categories is resolved by rule order alone, so reordering the table changes
// outcomes for ambiguous items.
package classifier

import (
	"strings"

	"despesas/internal/core"
)

// Rule pairs a category with the keywords that select it.
type Rule struct {
	Category core.Category
	Keywords []string
}

// Fallback is returned when no rule matches.
const Fallback = core.Outros

// rules is evaluated top to bottom. Keywords are stored lower-case: they are
// compared against folded text, so a keyword with a capital (such as "eDP")
// would never match.
var rules = []Rule{
	{core.Carro, []string{"gasóleo", "combustível", "gasolina", "transporte", "cp", "metro", "vistoria", "selo", "seguro"}},
	{core.Mobilidade, []string{"uber", "táxi", "bolt", "cabify"}},
	{core.AlimentacaoFora, []string{"restaurante", "café", "hambúrguer", "mcdonald", "pizza", "burger", "sushi", "jantar", "snack"}},
	{core.Supermercado, []string{"mercado", "supermercado", "pingo doce", "continente", "minipreço", "lidl", "intermarché", "auchan", "aldi"}},
	{core.Saude, []string{"farmácia", "medicamento", "médico", "dentista", "óculos", "consulta"}},
	{core.Lazer, []string{"netflix", "spotify", "cinema", "jogo", "livro", "bilhete", "evento", "lazer", "hotel", "airbnb"}},
	{core.Casa, []string{"renda", "aluguel", "água", "eletricidade", "luz", "gás", "internet", "meo", "vodafone", "nos", "edp"}},
	{core.Desporto, []string{"ginásio", "academia", "fitness", "jiu-jitsu", "kickbox", "suplemento", "creatina"}},
	{core.Educacao, []string{"curso", "formação", "aula", "licença", "certificado"}},
	{core.Investimentos, []string{"xtb", "investimento", "banco", "carteira", "carteira de investimentos"}},
	{core.Transferencias, []string{"mbway", "transferência", "paypal", "wise", "revolut"}},
	{core.Tabaco, []string{"tabaco", "cigarro", "cigarros"}},
}

// Classify returns the category of the first rule with a keyword in text.
func Classify(text string) core.Category {
	lower := core.Fold(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}
	}
	return Fallback
}

// Rules returns a copy of the rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Categories lists every category label in priority order, fallback last.
func Categories() []core.Category {
	out := make([]core.Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Category)
	}
	return append(out, Fallback)
}

// IsCategory reports whether c belongs to the fixed label set.
func IsCategory(c core.Category) bool {
	if c == Fallback {
		return true
	}
	for _, r := range rules {
		if r.Category == c {
			return true
		}
	}
	return false
}
