package paper

import (
	"go.uber.org/fx"

	"bitunix_bot/internal/modules/config"
	"bitunix_bot/internal/modules/paper/service"
	"bitunix_bot/internal/modules/paper/service/pg"
	"bitunix_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("paper",
		fx.Provide(
			func(cfg *config.Config, txm *db.PgTxManager) (*service.Engine, error) {
				var archive service.TradeArchive
				if txm != nil {
					archive = pg.NewTrades(txm)
				}
				return service.NewEngine(cfg, archive)
			},
		),
	)
}
