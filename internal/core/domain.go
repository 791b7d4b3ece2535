package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category labels. The set is fixed; Outros is the fallback.
const (
	Carro           Category = "Carro"
	Mobilidade      Category = "Mobilidade"
	AlimentacaoFora Category = "Alimentação fora de casa"
	Supermercado    Category = "Supermercado"
	Saude           Category = "Saúde"
	Lazer           Category = "Lazer"
	Casa            Category = "Casa"
	Desporto        Category = "Desporto"
	Educacao        Category = "Educação"
	Investimentos   Category = "Investimentos"
	Transferencias  Category = "Transferência / Outros"
	Tabaco          Category = "Tabaco"
	Outros          Category = "Outros"
)

// DateLayout is the layout used when a date is written to a store.
const DateLayout = "2006-01-02"

type (
	Category string

	Date struct {
		time.Time
	}

	Expense struct {
		Date        Date
		Item        string
		Amount      decimal.Decimal
		Category    Category
		Description string
	}
)

var (
	// ErrFormat marks a free-text entry that is not ITEM - AMOUNT[ - DESCRIPTION].
	ErrFormat = errors.New("expected ITEM - AMOUNT[ - DESCRIPTION]")
	// ErrInvalidMonth marks a month name that is not in the month table.
	ErrInvalidMonth = errors.New("invalid month")
	// ErrNoDataForMonth is returned by month-scoped queries with an empty result.
	ErrNoDataForMonth = errors.New("no data for month")
	// ErrStoreUnavailable wraps any failure of the backing record store.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyItem     = errors.New("empty item")
	ErrZeroDate      = errors.New("date cannot be zero")
)

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Month returns the month number (1-12).
func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Validate checks the structural invariants of a record. Amounts are not
// range-checked: zero and negative values are valid entries.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Item) == "" {
		return ErrEmptyItem
	}
	if strings.TrimSpace(string(e.Category)) == "" {
		return errors.New("empty category")
	}
	return nil
}
