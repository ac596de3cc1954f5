package bitunix

import (
	"go.uber.org/fx"

	"bitunix_bot/internal/modules/bitunix_client/service"
)

func Module() fx.Option {
	return fx.Module("bitunix_client",
		fx.Provide(
			service.New, // func(*config.Config) *service.Client
		),
	)
}
