package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	bitunix "bitunix_bot/internal/modules/bitunix_client"
	"bitunix_bot/internal/modules/config"
	"bitunix_bot/internal/modules/paper"
	"bitunix_bot/internal/modules/postgres"
	telegram "bitunix_bot/internal/modules/telegram_bot"
	"bitunix_bot/internal/trader"
	"bitunix_bot/pkg/logger"
	"bitunix_bot/pkg/tracing"
)

const serviceName = "bitunix_bot"

func main() {
	logger.SetServiceName(serviceName)
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		bitunix.Module(),
		paper.Module(),
		trader.Module(),
		telegram.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) {
	if cfg.Jaeger.Host == "" {
		return
	}

	tracing.SetServiceName(serviceName)
	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		logger.Error("init tracer: %v", err)
		return
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closeTracer()
			return nil
		},
	})
}
