package service

import (
	"context"
	"strconv"

	"bitunix_bot/internal/models"
	"bitunix_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

// TickerPrice — текущий тикер по символу. Публичный эндпоинт.
func (c *Client) TickerPrice(ctx context.Context, symbol string) models.Result {
	return c.getPublic(ctx, "/api/v1/futures/market/tickers", map[string]string{"symbol": symbol})
}

// AllTickers — все тикеры разом.
func (c *Client) AllTickers(ctx context.Context) models.Result {
	return c.getPublic(ctx, "/api/v1/futures/market/tickers", nil)
}

// Klines — свечи OHLCV. Публичный эндпоинт.
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) models.Result {
	return c.getPublic(ctx, "/api/v1/futures/market/klines", map[string]string{
		"symbol":   symbol,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	})
}

// CurrentPrice — цена с цепочкой фолбэков: одиночный тикер → все тикеры → 0.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) float64 {
	if px := c.tickerLastPrice(ctx, symbol); px > 0 {
		return px
	}

	res := c.AllTickers(ctx)
	if res.OK() && len(res.Data) > 0 {
		var tickers []rawTicker
		if err := sonic.Unmarshal(res.Data, &tickers); err == nil {
			for _, t := range tickers {
				if t.Symbol == symbol {
					if px := t.price(); px > 0 {
						return px
					}
				}
			}
		}
	}

	logger.Error("unable to fetch current price for %s", symbol)
	return 0
}

// tickerLastPrice достаёт цену из ответа тикеров; data бывает и объектом,
// и списком.
func (c *Client) tickerLastPrice(ctx context.Context, symbol string) float64 {
	res := c.TickerPrice(ctx, symbol)
	if !res.OK() || len(res.Data) == 0 {
		return 0
	}

	var list []rawTicker
	if err := sonic.Unmarshal(res.Data, &list); err == nil {
		for _, t := range list {
			if t.Symbol == symbol {
				return t.price()
			}
		}
		return 0
	}

	var one rawTicker
	if err := sonic.Unmarshal(res.Data, &one); err == nil {
		return one.price()
	}
	return 0
}
