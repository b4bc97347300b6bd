package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"escrowfund/config"
	"escrowfund/pkg/db"
	"escrowfund/pkg/logger"
	"escrowfund/pkg/mq"
	"escrowfund/pkg/outbox"
)

func main() {
	// Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting outbox dispatcher...")

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	log.Info("Database connection established")

	// Init RabbitMQ publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	log.Info("Connected to broker", zap.String("exchange", mq.ExchangeName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := outbox.NewDispatcher(outbox.NewRepository(dbConn), publisher, log).
		WithInterval(time.Second).
		WithBatchSize(100)

	// Blocks until SIGINT/SIGTERM.
	dispatcher.Start(ctx)
}
