package trader

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("trader",
		fx.Provide(
			New, // func(*config.Config, *bitunix.Client, *paper.Engine) *Trader
		),
	)
}
