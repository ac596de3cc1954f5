package postgres

import (
	"context"
	"fmt"

	"bitunix_bot/internal/modules/config"
	"bitunix_bot/pkg/db"

	"go.uber.org/fx"
)

// Module даёт пул к постгресу для архива закрытых сделок.
// Пустой DSN — архив выключен, провайдер возвращает nil-менеджер.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}
