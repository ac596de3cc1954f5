package service

import (
	"context"
	"strconv"

	"bitunix_bot/internal/models"
)

// PlaceMarketOrder открывает позицию маркет-ордером. Самый надёжный
// эндпоинт биржи.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol, side, qty string) (models.Result, error) {
	return c.PostJSON(ctx, "/api/v1/futures/trade/place_order", map[string]any{
		"symbol":    symbol,
		"side":      side,
		"orderType": string(models.OrderMarket),
		"qty":       qty,
		"tradeSide": string(models.TradeOpen),
	})
}

// PlaceLimitOrder — лимитный ордер; tradeSide OPEN или CLOSE.
func (c *Client) PlaceLimitOrder(ctx context.Context, symbol, side, qty, price string, tradeSide models.TradeSide) (models.Result, error) {
	return c.PostJSON(ctx, "/api/v1/futures/trade/place_order", map[string]any{
		"symbol":    symbol,
		"side":      side,
		"orderType": string(models.OrderLimit),
		"qty":       qty,
		"price":     price,
		"tradeSide": string(tradeSide),
	})
}

// PlaceStopLoss — стоп как лимитный reduce-only CLOSE по цене SL.
// side — противоположна стороне позиции.
func (c *Client) PlaceStopLoss(ctx context.Context, symbol, side, qty, slPrice string) (models.Result, error) {
	return c.placeReduceOnlyLimit(ctx, symbol, side, qty, slPrice)
}

// PlaceTakeProfit — тейк как лимитный reduce-only CLOSE по цене TP.
func (c *Client) PlaceTakeProfit(ctx context.Context, symbol, side, qty, tpPrice string) (models.Result, error) {
	return c.placeReduceOnlyLimit(ctx, symbol, side, qty, tpPrice)
}

func (c *Client) placeReduceOnlyLimit(ctx context.Context, symbol, side, qty, price string) (models.Result, error) {
	return c.PostJSON(ctx, "/api/v1/futures/trade/place_order", map[string]any{
		"symbol":     symbol,
		"side":       side,
		"orderType":  string(models.OrderLimit),
		"qty":        qty,
		"price":      price,
		"tradeSide":  string(models.TradeClose),
		"effect":     "GTC",
		"reduceOnly": true,
	})
}

// CloseAllPositions закрывает ВСЕ позиции по маржинальной валюте маркетом.
// Самый надёжный способ закрытия.
func (c *Client) CloseAllPositions(ctx context.Context, marginCoin string) (models.Result, error) {
	return c.PostJSON(ctx, "/api/v1/futures/trade/close_all_position", map[string]any{
		"marginCoin": marginCoin,
	})
}

// SetLeverage выставляет плечо. Нестабильный эндпоинт ("System error") —
// при отказах плечо можно выставить руками в веб-интерфейсе биржи.
func (c *Client) SetLeverage(ctx context.Context, symbol, marginCoin string, leverage int, marginMode string) (models.Result, error) {
	if marginMode == "" {
		marginMode = "ISOLATION"
	}
	return c.PostJSON(ctx, "/api/v1/futures/account/leverage", map[string]any{
		"symbol":     symbol,
		"marginCoin": marginCoin,
		"leverage":   strconv.Itoa(leverage),
		"marginMode": marginMode,
	})
}

// QueryOrder — статус ордера. Нестабильный эндпоинт.
func (c *Client) QueryOrder(ctx context.Context, orderID, symbol string) (models.Result, error) {
	return c.PostJSON(ctx, "/api/v1/futures/trade/query_order", map[string]any{
		"orderId": orderID,
		"symbol":  symbol,
	})
}
