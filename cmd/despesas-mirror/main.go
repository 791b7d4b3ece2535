package main

import (
	"context"
	"errors"
	"os"

	"despesas/internal/amqp"
	"despesas/internal/backend"
	"despesas/internal/cli"
	"despesas/internal/config"
	applog "despesas/internal/log"
	"despesas/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig((*config.Config).ValidateMirror)
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentWorker)
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("despesas-mirror stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("despesas-mirror shutdown complete")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, cancel := cli.GracefulShutdown(context.Background(), logger)
	defer cancel()

	repo, err := cli.InitSQLite(ctx, logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	sheet, err := backend.NewSheetsClient(ctx, backendCfg)
	if err != nil {
		return err
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(repo, sheet, cfg.MirrorBatchSize)

	// Rows recorded while the worker was down have no event left in the queue.
	logger.InfoContext(ctx, "Performing startup mirror sweep")
	if err := mirror.StartupSweep(ctx); err != nil {
		logger.ErrorContext(ctx, "Startup mirror sweep failed", applog.FieldError, err)
	}

	logger.InfoContext(ctx, "Consuming expense events", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeExpenseRecorded(ctx, mirror.HandleRecorded)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
