package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"despesas/internal/aggregate"
	"despesas/internal/chart"
	"despesas/internal/core"
	"despesas/internal/entry"
	applog "despesas/internal/log"
	"despesas/internal/report"
	"despesas/internal/sheets"
)

// ChartRenderer draws a chart series as an image.
type ChartRenderer interface {
	Pie(series report.ChartSeries) ([]byte, error)
}

// MonthReport is the summary of one month with its derived metrics.
type MonthReport struct {
	Month   int
	Name    string
	Summary core.CategorySummary
	Total   decimal.Decimal
	Savings decimal.Decimal
}

// MonthChart is a rendered pie chart of one month.
type MonthChart struct {
	Name    string
	Caption string
	PNG     []byte
}

// ExpenseService records free-text expenses and answers summary queries
// over a record store. Every read re-reads the whole store.
type ExpenseService struct {
	store    sheets.Store
	renderer ChartRenderer
	budget   decimal.Decimal
	now      func() time.Time
	events   *applog.StructuredLogger

	// Appends are serialized; reads are not isolated from them.
	writeMu sync.Mutex
}

type Option func(*ExpenseService)

func WithBudget(budget decimal.Decimal) Option {
	return func(s *ExpenseService) { s.budget = budget }
}

func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

func WithRenderer(r ChartRenderer) Option {
	return func(s *ExpenseService) { s.renderer = r }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.events = applog.NewStructuredLogger(l) }
}

func NewExpenseService(store sheets.Store, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store:    store,
		renderer: chart.NewRenderer(),
		budget:   aggregate.DefaultBudget,
		now:      time.Now,
		events:   applog.NewStructuredLogger(applog.New(applog.Config{Handler: slog.Default().Handler()})),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Budget returns the monthly budget savings are measured against.
func (s *ExpenseService) Budget() decimal.Decimal {
	return s.budget
}

// Record parses one ITEM - AMOUNT[ - DESCRIPTION] line, dated today, and
// appends it. Nothing is written when parsing fails.
func (s *ExpenseService) Record(ctx context.Context, raw string) (core.Expense, error) {
	e, err := entry.Parse(raw, core.DateOf(s.now()))
	if err != nil {
		return core.Expense{}, err
	}

	s.writeMu.Lock()
	ref, err := s.store.Append(ctx, e)
	s.writeMu.Unlock()
	if err != nil {
		return core.Expense{}, storeError("append expense", err)
	}

	s.events.LogExpenseRecorded(ctx, e.Item, core.FormatAmount(e.Amount), e.Category.String(), ref)
	return e, nil
}

// SummaryAll summarizes every month present in the store.
func (s *ExpenseService) SummaryAll(ctx context.Context) (core.MonthlySummary, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.SummarizeAll(records), nil
}

// SummaryMonth summarizes one month given by its Portuguese name.
func (s *ExpenseService) SummaryMonth(ctx context.Context, monthName string) (MonthReport, error) {
	month, err := core.MonthNumber(monthName)
	if err != nil {
		return MonthReport{}, err
	}
	records, err := s.records(ctx)
	if err != nil {
		return MonthReport{}, err
	}
	summary, err := aggregate.SummarizeMonth(records, month)
	if err != nil {
		return MonthReport{}, err
	}
	total, savings := aggregate.TotalAndSavings(summary, s.budget)
	return MonthReport{
		Month:   month,
		Name:    core.MonthName(month),
		Summary: summary,
		Total:   total,
		Savings: savings,
	}, nil
}

// ListMonth returns the records of one month in store order.
func (s *ExpenseService) ListMonth(ctx context.Context, monthName string) ([]core.Expense, error) {
	month, err := core.MonthNumber(monthName)
	if err != nil {
		return nil, err
	}
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ListMonth(records, month)
}

// ChartMonth renders the category shares of one month as a PNG pie chart.
func (s *ExpenseService) ChartMonth(ctx context.Context, monthName string) (MonthChart, error) {
	mr, err := s.SummaryMonth(ctx, monthName)
	if err != nil {
		return MonthChart{}, err
	}
	png, err := s.renderer.Pie(report.Series(mr.Summary))
	if errors.Is(err, chart.ErrNothingToPlot) {
		return MonthChart{}, fmt.Errorf("%w: %w", core.ErrNoDataForMonth, err)
	}
	if err != nil {
		return MonthChart{}, fmt.Errorf("render chart: %w", err)
	}
	return MonthChart{Name: mr.Name, Caption: report.ChartCaption(mr.Name), PNG: png}, nil
}

// Ready reports whether the store can be read.
func (s *ExpenseService) Ready(ctx context.Context) error {
	if _, err := s.store.ReadAll(ctx); err != nil {
		return storeError("read expenses", err)
	}
	return nil
}

func (s *ExpenseService) records(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, storeError("read expenses", err)
	}
	records, err := sheets.DecodeRows(rows)
	if err != nil {
		return nil, storeError("decode expenses", err)
	}
	return records, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStoreUnavailable, err)
}
