// Package telegram is the chat transport: it turns messages into service
// calls and service results into replies.
package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"despesas/internal/core"
	applog "despesas/internal/log"
	"despesas/internal/report"
	"despesas/internal/services"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

// Service is what the chat handlers need from the expense service.
type Service interface {
	Record(ctx context.Context, raw string) (core.Expense, error)
	SummaryAll(ctx context.Context) (core.MonthlySummary, error)
	SummaryMonth(ctx context.Context, monthName string) (services.MonthReport, error)
	ListMonth(ctx context.Context, monthName string) ([]core.Expense, error)
	ChartMonth(ctx context.Context, monthName string) (services.MonthChart, error)
	Budget() decimal.Decimal
}

var _ Service = (*services.ExpenseService)(nil)

// Reply is one answer to a chat message: either text or a photo.
type Reply struct {
	Text    string
	Photo   []byte
	Caption string
}

type Handler struct {
	svc    Service
	events *applog.StructuredLogger
}

func NewHandler(svc Service, logger *applog.Logger) *Handler {
	return &Handler{svc: svc, events: applog.NewStructuredLogger(logger)}
}

// Help answers /start and /ajuda.
func (h *Handler) Help() Reply {
	return Reply{Text: report.MsgHelp}
}

// Text records a free-text expense entry.
func (h *Handler) Text(ctx context.Context, text string) Reply {
	e, err := h.svc.Record(ctx, text)
	if err != nil {
		return h.errorReply(ctx, err, "")
	}
	return Reply{Text: report.Recorded(e)}
}

// Summary answers /resumo: all months without an argument, one month with it.
func (h *Handler) Summary(ctx context.Context, args []string) Reply {
	if len(args) == 0 {
		monthly, err := h.svc.SummaryAll(ctx)
		if err != nil {
			return h.errorReply(ctx, err, "")
		}
		return Reply{Text: report.AllMonths(monthly, h.svc.Budget())}
	}

	month := args[0]
	mr, err := h.svc.SummaryMonth(ctx, month)
	if err != nil {
		return h.errorReply(ctx, err, month)
	}
	return Reply{Text: report.MonthSummary(mr.Name, mr.Summary, h.svc.Budget())}
}

// List answers /despesas <mês>.
func (h *Handler) List(ctx context.Context, args []string) Reply {
	if len(args) == 0 {
		return Reply{Text: report.MissingMonth("/despesas")}
	}
	month := args[0]
	records, err := h.svc.ListMonth(ctx, month)
	if err != nil {
		return h.errorReply(ctx, err, month)
	}
	return Reply{Text: report.ExpenseList(core.Fold(strings.TrimSpace(month)), records)}
}

// Chart answers /grafico <mês> with a pie chart.
func (h *Handler) Chart(ctx context.Context, args []string) Reply {
	if len(args) == 0 {
		return Reply{Text: report.MissingMonth("/grafico")}
	}
	month := args[0]
	c, err := h.svc.ChartMonth(ctx, month)
	if err != nil {
		return h.errorReply(ctx, err, month)
	}
	return Reply{Photo: c.PNG, Caption: c.Caption}
}

func (h *Handler) errorReply(ctx context.Context, err error, month string) Reply {
	switch {
	case errors.Is(err, core.ErrFormat):
		return Reply{Text: report.MsgUsage}
	case errors.Is(err, core.ErrInvalidMonth):
		return Reply{Text: report.MsgInvalidMonth}
	case errors.Is(err, core.ErrNoDataForMonth):
		return Reply{Text: report.NoData(core.Fold(strings.TrimSpace(month)))}
	default:
		h.events.LogError(ctx, "Expense store request failed", err, applog.ComponentBot, "", nil)
		return Reply{Text: report.MsgStoreUnavailable}
	}
}

// Chunks splits text into pieces of at most limit runes, breaking on line
// ends where possible.
func Chunks(text string, limit int) []string {
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		r := []rune(line)
		if len(cur)+len(r) > limit {
			flush()
		}
		for len(r) > limit {
			out = append(out, string(r[:limit]))
			r = r[limit:]
		}
		cur = append(cur, r...)
	}
	flush()
	return out
}
