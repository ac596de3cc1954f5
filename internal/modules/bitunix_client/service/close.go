package service

import (
	"context"

	"bitunix_bot/internal/models"
	"bitunix_bot/pkg/logger"
)

// closeState — явные состояния закрытия позиции. Документация биржи и её
// реальное поведение расходятся в трактовке поля side при tradeSide=CLOSE,
// поэтому закрытие — последовательность из максимум двух попыток.
type closeState int

const (
	// попытка A: интуитивная трактовка, закрыть LONG = SELL
	closeAttemptA closeState = iota
	// попытка B: трактовка по документации, закрыть LONG = BUY
	closeAttemptB
	closeDone
	closeFailed
)

// ClosePositionFull закрывает позицию целиком рыночным ордером. Количество
// всегда берётся из живой позиции. Если обе трактовки side отвергнуты
// биржей, возвращается последний ответ и models.ErrAmbiguousClose.
func (c *Client) ClosePositionFull(ctx context.Context, symbol, positionID string) (models.Result, error) {
	p, err := c.findPosition(ctx, symbol, positionID)
	if err != nil {
		return models.Result{}, err
	}

	sideA := "SELL" // закрываем LONG
	if p.Side == models.SideShort {
		sideA = "BUY"
	}
	sideB := opposite(sideA)

	var last models.Result
	state := closeAttemptA
	for state != closeDone && state != closeFailed {
		side := sideA
		if state == closeAttemptB {
			side = sideB
		}

		res, err := c.submitClose(ctx, p, side)
		if err != nil {
			return res, err
		}
		last = res

		switch {
		case res.OK():
			state = closeDone
		case state == closeAttemptA:
			logger.Info("close %s: side %s rejected (code %d), retrying with %s", positionID, sideA, res.Code, sideB)
			state = closeAttemptB
		default:
			state = closeFailed
		}
	}

	if state == closeFailed {
		return last, models.ErrAmbiguousClose
	}
	return last, nil
}

func (c *Client) submitClose(ctx context.Context, p models.Position, side string) (models.Result, error) {
	body := map[string]any{
		"symbol":     p.Symbol,
		"qty":        formatQty(p.Qty),
		"side":       side,
		"tradeSide":  string(models.TradeClose),
		"positionId": p.PositionID,
		"orderType":  string(models.OrderMarket),
		"reduceOnly": true,
	}
	return c.PostJSON(ctx, "/api/v1/futures/trade/place_order", body)
}

func opposite(side string) string {
	if side == "BUY" {
		return "SELL"
	}
	return "BUY"
}
