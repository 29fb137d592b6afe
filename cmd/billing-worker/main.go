package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"coown/internal/amqp"
	"coown/internal/config"
	applog "coown/internal/log"
	"coown/internal/services"
	"coown/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.NewHandler(cfg.LogFormat, cfg.LogLevel), applog.ComponentApp)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting billing-worker",
		"interval", cfg.BillingInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional. Without it, posted bills are saved locally but no
	// activity events are emitted.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", applog.FieldExchange, cfg.AMQPExchange, applog.FieldQueue, cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - posted bills will not emit activity events")
	}

	processor := services.NewBillingProcessor(repo, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := processor.Run(ctx, cfg.BillingInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Billing processor stopped", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Billing-worker shutdown complete")
}
