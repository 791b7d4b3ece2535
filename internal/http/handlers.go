package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"despesas/internal/aggregate"
	"despesas/internal/core"
	applog "despesas/internal/log"
)

type categoryJSON struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type monthJSON struct {
	Month      int            `json:"month"`
	Name       string         `json:"name"`
	Categories []categoryJSON `json:"categories"`
	Total      string         `json:"total"`
	Savings    string         `json:"savings"`
}

type summaryJSON struct {
	Budget string      `json:"budget"`
	Months []monthJSON `json:"months"`
}

type expenseJSON struct {
	Date        string `json:"date"`
	Item        string `json:"item"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type expenseListJSON struct {
	Month    int           `json:"month"`
	Name     string        `json:"name"`
	Expenses []expenseJSON `json:"expenses"`
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// readyHandler checks that the expense store answers within timeout.
func (s *Server) readyHandler(timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		checks := map[string]any{
			"rate_limiter": map[string]any{"active_clients": s.rateLimiter.ActiveClients()},
		}
		status, code := "ready", http.StatusOK
		if err := s.svc.Ready(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		} else {
			checks["store"] = "ok"
		}

		NewResponse().Status(code).JSON(map[string]any{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    checks,
		}).Write(w)
	}
}

// handleSummary serves /api/summary and /api/summary?month=maio.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	budget := s.svc.Budget()

	month, ok := MonthParam(r.URL.Query())
	if !ok {
		monthly, err := s.svc.SummaryAll(ctx)
		if err != nil {
			s.errorResponse(ctx, err, applog.OpSummary).Write(w)
			return
		}
		out := summaryJSON{Budget: core.FormatAmount(budget), Months: make([]monthJSON, 0, len(monthly))}
		for _, ms := range monthly {
			out.Months = append(out.Months, newMonthJSON(ms.Month, ms.ByCategory, budget))
		}
		NewResponse().JSON(out).Write(w)
		return
	}

	mr, err := s.svc.SummaryMonth(ctx, month)
	if err != nil {
		s.errorResponse(ctx, err, applog.OpSummary).Write(w)
		return
	}
	NewResponse().JSON(newMonthJSON(mr.Month, mr.Summary, budget)).Write(w)
}

// handleExpenses serves /api/expenses?month=maio.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	month, ok := MonthParam(r.URL.Query())
	if !ok {
		BadRequestError("month is required").Write(w)
		return
	}

	records, err := s.svc.ListMonth(r.Context(), month)
	if err != nil {
		s.errorResponse(r.Context(), err, applog.OpList).Write(w)
		return
	}

	n, _ := core.MonthNumber(month)
	out := expenseListJSON{Month: n, Name: core.MonthName(n), Expenses: make([]expenseJSON, 0, len(records))}
	for _, e := range records {
		out.Expenses = append(out.Expenses, expenseJSON{
			Date:        e.Date.String(),
			Item:        e.Item,
			Amount:      core.FormatAmount(e.Amount),
			Category:    e.Category.String(),
			Description: e.Description,
		})
	}
	NewResponse().JSON(out).Write(w)
}

// handleChart serves /api/chart?month=maio as a PNG pie chart.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	month, ok := MonthParam(r.URL.Query())
	if !ok {
		BadRequestError("month is required").Write(w)
		return
	}

	c, err := s.svc.ChartMonth(r.Context(), month)
	if err != nil {
		s.errorResponse(r.Context(), err, applog.OpChart).Write(w)
		return
	}
	NewResponse().PNG(c.PNG).Write(w)
}

// errorResponse maps service errors onto status codes.
func (s *Server) errorResponse(ctx context.Context, err error, op string) *ResponseBuilder {
	switch {
	case errors.Is(err, core.ErrInvalidMonth):
		return BadRequestError(core.ErrInvalidMonth.Error())
	case errors.Is(err, core.ErrNoDataForMonth):
		return NotFoundError(core.ErrNoDataForMonth.Error())
	case errors.Is(err, core.ErrStoreUnavailable):
		s.events.LogError(ctx, "Expense store request failed", err, applog.ComponentHTTP, op, nil)
		return ServiceUnavailableError(core.ErrStoreUnavailable.Error())
	default:
		s.events.LogError(ctx, "API request failed", err, applog.ComponentHTTP, op, nil)
		return ErrorResponse(http.StatusInternalServerError, "internal error")
	}
}

func newMonthJSON(month int, summary core.CategorySummary, budget decimal.Decimal) monthJSON {
	total, savings := aggregate.TotalAndSavings(summary, budget)
	out := monthJSON{
		Month:      month,
		Name:       core.MonthName(month),
		Categories: make([]categoryJSON, 0, len(summary)),
		Total:      core.FormatAmount(total),
		Savings:    core.FormatAmount(savings),
	}
	for _, ca := range summary {
		out.Categories = append(out.Categories, categoryJSON{Category: ca.Category.String(), Amount: core.FormatAmount(ca.Amount)})
	}
	return out
}
