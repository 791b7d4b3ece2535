package sheets

import (
	"context"

	"despesas/internal/core"
)

// Column headers of the expense sheet, in column order.
const (
	HeaderDate        = "Data"
	HeaderItem        = "Item"
	HeaderAmount      = "Montante"
	HeaderCategory    = "Categoria"
	HeaderDescription = "Descrição"
)

// Headers lists the expense sheet columns A..E.
var Headers = []string{HeaderDate, HeaderItem, HeaderAmount, HeaderCategory, HeaderDescription}

// Row is one stored expense as raw text, before decoding.
type Row struct {
	Date        string
	Item        string
	Amount      string
	Category    string
	Description string
}

// Ports for outbound adapters.
type (
	// RecordWriter appends one expense. A failure must be returned, never dropped.
	RecordWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// RecordReader returns every stored row in insertion order.
	RecordReader interface {
		ReadAll(ctx context.Context) ([]Row, error)
	}

	// Store is a record store that can be both written and read.
	Store interface {
		RecordWriter
		RecordReader
	}
)

// EncodeRow converts an expense into its stored text form.
func EncodeRow(e core.Expense) Row {
	return Row{
		Date:        e.Date.String(),
		Item:        e.Item,
		Amount:      core.FormatAmount(e.Amount),
		Category:    e.Category.String(),
		Description: e.Description,
	}
}

// Values returns the row as a column-ordered slice.
func (r Row) Values() []string {
	return []string{r.Date, r.Item, r.Amount, r.Category, r.Description}
}
