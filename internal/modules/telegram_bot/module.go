package telegram

import (
	"context"

	"go.uber.org/fx"

	"bitunix_bot/internal/modules/telegram_bot/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram, // func(*config.Config, *trader.Trader) (*service.Telegram, error)
		),
		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						t.Start(context.Background())
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
