package sheets

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"despesas/internal/classifier"
	"despesas/internal/core"
)

// ErrUnknownCategory is returned for a category label outside the fixed set.
var ErrUnknownCategory = errors.New("unknown category")

// dateLayouts are the date renderings a spreadsheet may hand back for a
// value written as YYYY-MM-DD.
var dateLayouts = []string{
	core.DateLayout,
	"02/01/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"02-01-2006",
}

// RowError reports the row and field that failed to decode.
type RowError struct {
	Row   int // 1-based position among data rows
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DecodeRows converts raw rows into typed records, failing on the first
// malformed row. Blank rows are skipped.
func DecodeRows(rows []Row) ([]core.Expense, error) {
	out := make([]core.Expense, 0, len(rows))
	for i, r := range rows {
		if isBlank(r) {
			continue
		}
		e, err := DecodeRow(r)
		if err != nil {
			if re, ok := err.(*RowError); ok {
				re.Row = i + 1
			}
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DecodeRow converts one raw row into a typed record.
func DecodeRow(r Row) (core.Expense, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return core.Expense{}, &RowError{Field: HeaderDate, Value: r.Date, Err: err}
	}
	amount, err := core.ParseAmount(strings.TrimSuffix(strings.TrimSpace(r.Amount), "€"))
	if err != nil {
		return core.Expense{}, &RowError{Field: HeaderAmount, Value: r.Amount, Err: err}
	}
	item := strings.TrimSpace(r.Item)
	if item == "" {
		return core.Expense{}, &RowError{Field: HeaderItem, Value: r.Item, Err: core.ErrEmptyItem}
	}
	category := core.Category(strings.TrimSpace(r.Category))
	if category == "" {
		return core.Expense{}, &RowError{Field: HeaderCategory, Value: r.Category, Err: fmt.Errorf("empty category")}
	}
	if !classifier.IsCategory(category) {
		return core.Expense{}, &RowError{Field: HeaderCategory, Value: r.Category, Err: ErrUnknownCategory}
	}
	return core.Expense{
		Date:        date,
		Item:        item,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(r.Description),
	}, nil
}

func parseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return core.DateOf(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return core.Date{}, firstErr
}

func isBlank(r Row) bool {
	for _, v := range r.Values() {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
