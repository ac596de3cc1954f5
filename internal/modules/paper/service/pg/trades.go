package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bitunix_bot/internal/models"
	"bitunix_bot/pkg/db"
)

// Trades пишет закрытые бумажные сделки в постгрес для истории.
type Trades struct {
	db db.TxManager
}

// NewTrades instance
func NewTrades(txm db.TxManager) *Trades {
	return &Trades{db: txm}
}

const insertClosedSQL = `
INSERT INTO paper_trades
	(order_id, symbol, side, quantity, entry_price, exit_price,
	 size_usd, fee_usd, exit_fee_usd, pnl_usd, close_reason, opened_at, closed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (order_id) DO NOTHING`

// InsertClosed in db
func (t *Trades) InsertClosed(
	ctx context.Context,
	p models.PaperPosition,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.InsertClosed: %w", err)
		}
	}()
	return t.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctxTx, insertClosedSQL,
				p.OrderID, p.Symbol, p.Side, p.Qty, p.EntryPrice, p.ExitPrice,
				p.SizeUSD, p.FeeUSD, p.ExitFeeUSD, p.PnlUSD, p.CloseReason,
				p.OpenedAt, p.ClosedAt)
			return err
		})
}
