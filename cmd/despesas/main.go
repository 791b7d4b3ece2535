package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"despesas/internal/backend"
	"despesas/internal/chart"
	"despesas/internal/cli"
	"despesas/internal/config"
	apphttp "despesas/internal/http"
	applog "despesas/internal/log"
	"despesas/internal/middleware/ratelimit"
	"despesas/internal/services"
	"despesas/internal/telegram"
)

const (
	shutdownTimeout = 30 * time.Second
	chartCacheSize  = 24
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig((*config.Config).ValidateBot)
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("despesas stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("despesas stopped gracefully")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, cancel := cli.GracefulShutdown(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	svc := services.NewExpenseService(store.Backend,
		services.WithBudget(cfg.MonthlyBudget),
		services.WithRenderer(chart.NewCachedRenderer(chart.NewRenderer(), chartCacheSize, time.Hour)),
		services.WithLogger(logger.WithComponent(applog.ComponentExpense)),
	)

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})
	defer limiter.Stop()

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:         cfg.TelegramToken,
		PollTimeout:   cfg.TelegramPollTimeout,
		AllowedUserID: cfg.TelegramAllowedUserID,
	}, telegram.NewHandler(svc, logger), limiter, logger)
	if err != nil {
		return err
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Config{RateLimitPerMinute: cfg.RateLimitPerMinute}, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Start(gctx)
	})
	g.Go(func() error {
		logger.Info("Starting HTTP server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		return nil
	})

	return g.Wait()
}
