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
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/balance"
	"max.ks1230/personal-ledger/internal/model/ledger"
	"max.ks1230/personal-ledger/internal/model/messages"
	"max.ks1230/personal-ledger/internal/model/reports"
	"max.ks1230/personal-ledger/internal/model/storage"
	"max.ks1230/personal-ledger/internal/tracing"
)

type reportRequester interface {
	RequestReport(ctx context.Context, req reports.Request) error
}

func main() {
	logger.Info("Bot init - start")
	defer logger.Sync()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
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

	reportsCache := cache.NewReportCache(conf.Memcached())
	renderer := reports.NewRenderer(conf.App().DisplayCurrency())
	generator := reports.NewGenerator(conf.App(), store)

	var requester reportRequester
	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer:", zap.Error(err))
		}
		defer producer.Close()
		requester = reports.NewQueue(producer)
	} else {
		requester = reports.NewService(generator, renderer, reportsCache, client)
	}

	msgService := messages.NewService(client, messages.Deps{
		Gate:      auth.NewGate(store, conf.App()),
		Ledger:    ledger.NewService(store, conf.App(), reports.NewCacheInvalidator(reportsCache, generator)),
		Balance:   balance.NewAggregator(store),
		Reports:   requester,
		Formatter: renderer,
		Sessions:  auth.NewSessions(),
	})

	go func() {
		if err := metrics.Serve(ctx, conf.Metrics()); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	logger.Info("Bot init - end")

	client.ListenUpdates(ctx, msgService)
}
