// Package http serves the operational endpoints and read-only JSON views of
// the expense data.
package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"despesas/internal/core"
	applog "despesas/internal/log"
	"despesas/internal/middleware/ratelimit"
	"despesas/internal/middleware/security"
	"despesas/internal/middleware/trace"
	"despesas/internal/services"
)

// Service is the read side of the expense service used by the API.
type Service interface {
	SummaryAll(ctx context.Context) (core.MonthlySummary, error)
	SummaryMonth(ctx context.Context, monthName string) (services.MonthReport, error)
	ListMonth(ctx context.Context, monthName string) ([]core.Expense, error)
	ChartMonth(ctx context.Context, monthName string) (services.MonthChart, error)
	Ready(ctx context.Context) error
	Budget() decimal.Decimal
}

var _ Service = (*services.ExpenseService)(nil)

type Server struct {
	http.Server
	svc         Service
	rateLimiter *ratelimit.Limiter
	logger      *applog.Logger
	events      *applog.StructuredLogger
	started     time.Time

	shutdownOnce sync.Once
}

// Config tunes the server; zero values take defaults.
type Config struct {
	RateLimitPerMinute int
	ReadyTimeout       time.Duration
}

const defaultReadyTimeout = 10 * time.Second

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Service, cfg Config, logger *applog.Logger) *Server {
	logger = logger.WithComponent(applog.ComponentHTTP)
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = defaultReadyTimeout
	}

	s := &Server{
		svc:         svc,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		logger:      logger,
		events:      applog.NewStructuredLogger(logger),
		started:     time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.readyHandler(cfg.ReadyTimeout))

	api := http.NewServeMux()
	api.HandleFunc("/api/summary", s.handleSummary)
	api.HandleFunc("/api/expenses", s.handleExpenses)
	api.HandleFunc("/api/chart", s.handleChart)
	mux.Handle("/api/", s.rateLimiter.Middleware(clientIP, s.onRateLimited)(api))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger, clientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, clientIP(r),
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").
		Header("Retry-After", "60").
		Write(w)
}

// clientIP prefers proxy headers and falls back to the remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
