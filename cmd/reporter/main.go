package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/clients/cache"
	"max.ks1230/personal-ledger/internal/clients/kafka"
	"max.ks1230/personal-ledger/internal/clients/tg"
	"max.ks1230/personal-ledger/internal/config"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/metrics"
	"max.ks1230/personal-ledger/internal/model/reports"
	"max.ks1230/personal-ledger/internal/model/storage"
	"max.ks1230/personal-ledger/internal/tracing"
)

func main() {
	logger.Info("Reporter init - start")
	defer logger.Sync()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}
	if conf.Storage().Driver() == storage.DriverMemory {
		logger.Fatal("reporter needs a shared store, set storage.driver to postgres or sqlite")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if conf.Jaeger().AgentHostPort() != "" {
		closer, err := tracing.Init(conf.Jaeger())
		if err != nil {
			logger.Fatal("failed to init tracing:", zap.Error(err))
		}
		defer closer.Close()
	}

	store, err := storage.Open(conf.Storage(), conf.Postgres())
	if err != nil {
		logger.Fatal("failed to open storage:", zap.Error(err))
	}
	defer store.Close()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	service := reports.NewService(
		reports.NewGenerator(conf.App(), store),
		reports.NewRenderer(conf.App().DisplayCurrency()),
		cache.NewReportCache(conf.Memcached()),
		client,
	)

	consumer, err := kafka.NewConsumer(conf.Kafka(), service)
	if err != nil {
		logger.Fatal("failed to init kafka consumer:", zap.Error(err))
	}
	defer consumer.Close()

	go func() {
		if err := metrics.Serve(ctx, conf.Metrics()); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	logger.Info("Reporter init - end")

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Fatal("failed to consume report requests:", zap.Error(err))
	}
}
