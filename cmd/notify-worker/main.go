package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finledger/internal/amqp"
	"finledger/internal/config"
	applog "finledger/internal/log"
)

// notify-worker drains the notification queue and hands each event to a
// delivery channel. The current delivery is a structured log line; a
// mail or push integration plugs into deliver without touching the
// consume loop.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentNotifier})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notify worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting notify-worker", "queue", cfg.AMQPQueue)

	if err := client.ConsumeNotifications(ctx, deliver); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker stopped gracefully")
}

func deliver(msg *amqp.NotificationMessage) error {
	slog.Info("Notification delivered",
		"notification_id", msg.NotificationID,
		"user_id", msg.UserID,
		"type", msg.Type,
		"message", msg.Message,
		"timestamp", msg.Timestamp)
	return nil
}
