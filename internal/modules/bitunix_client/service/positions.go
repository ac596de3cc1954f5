package service

import (
	"context"

	"bitunix_bot/internal/helper"
	"bitunix_bot/internal/models"
	"bitunix_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// maintenanceMarginRate — упрощённая ставка поддерживающей маржи для оценки
// цены ликвидации.
const maintenanceMarginRate = 0.005

// PendingPositions — стабильный источник открытых позиций (с positionId).
func (c *Client) PendingPositions(ctx context.Context) (models.Result, error) {
	return c.getSigned(ctx, "/api/v1/futures/position/get_pending_positions", nil)
}

// AllPositions — более подробный, но нестабильный источник
// (периодически "System error").
func (c *Client) AllPositions(ctx context.Context) (models.Result, error) {
	return c.getSigned(ctx, "/api/v1/futures/position/get_positions", nil)
}

// OpenPositions — авторитетный список открытых позиций.
//
// Сначала пробуем подробный источник; если он вернул ошибку или пустую
// выдачу — откатываемся на стабильный. Затем каждая позиция прогоняется
// через конвейер дозаполнения: каждая стадия трогает поле только если его
// не прислала биржа.
func (c *Client) OpenPositions(ctx context.Context) ([]models.Position, error) {
	res, err := c.AllPositions(ctx)
	if err != nil || !res.OK() || res.EmptyData() {
		res, err = c.PendingPositions(ctx)
		if err != nil {
			return nil, err
		}
	}
	if !res.OK() {
		return nil, errors.Errorf("positions error: code=%d msg=%s", res.Code, res.Msg)
	}

	var raws []rawPosition
	if len(res.Data) > 0 {
		if err := sonic.Unmarshal(res.Data, &raws); err != nil {
			return nil, errors.Wrap(err, "decode positions")
		}
	}

	totalMargin := c.totalMargin(ctx)

	positions := make([]models.Position, 0, len(raws))
	for _, raw := range raws {
		if fnum(raw.Qty) <= 0 {
			continue
		}
		p := raw.toPosition()
		c.fillMarkPrice(ctx, &p)
		fillMargin(&p)
		fillMarginRate(&p, totalMargin)
		fillUnrealizedPNL(&p)
		fillLiquidationPrice(&p)
		fillROI(&p)
		positions = append(positions, p)
	}
	return positions, nil
}

// findPosition резолвит живую позицию по (positionId, symbol).
func (c *Client) findPosition(ctx context.Context, symbol, positionID string) (models.Position, error) {
	positions, err := c.OpenPositions(ctx)
	if err != nil {
		return models.Position{}, err
	}
	for _, p := range positions {
		if p.PositionID == positionID && p.Symbol == symbol {
			return p, nil
		}
	}
	return models.Position{}, errors.Wrapf(models.ErrPositionNotFound, "%s/%s", symbol, positionID)
}

// fillMarkPrice подтягивает марку из тикера. Форматы символов у биржи
// гуляют, поэтому пробуем до трёх вариантов, первый совпавший побеждает.
func (c *Client) fillMarkPrice(ctx context.Context, p *models.Position) {
	if p.HasMarkPrice && p.MarkPrice > 0 {
		return
	}

	base := helper.BaseAsset(p.Symbol)
	for _, sym := range []string{p.Symbol, base, base + "USDT"} {
		if px := c.tickerLastPrice(ctx, sym); px > 0 {
			p.MarkPrice = px
			return
		}
	}

	logger.Debug("no ticker price for %s, falling back to entry", p.Symbol)
	p.MarkPrice = p.EntryPrice
}

func fillMargin(p *models.Position) {
	if p.HasMargin && p.Margin > 0 {
		return
	}
	p.Margin = p.Qty * p.EntryPrice / float64(p.Leverage)
}

func fillMarginRate(p *models.Position, totalMargin float64) {
	if p.MarginRate > 0 || totalMargin <= 0 {
		return
	}
	p.MarginRate = p.Margin / totalMargin * 100
}

func fillUnrealizedPNL(p *models.Position) {
	if p.HasPNL {
		return
	}
	pnl := p.Qty * (p.MarkPrice - p.EntryPrice)
	if p.Side == models.SideShort {
		pnl = -pnl
	}
	p.UnrealizedPNL = pnl
}

func fillLiquidationPrice(p *models.Position) {
	if p.LiquidationPrice > 0 {
		return
	}
	lev := 1 / float64(p.Leverage)
	if p.Side == models.SideLong {
		p.LiquidationPrice = p.EntryPrice * (1 - lev + maintenanceMarginRate)
	} else {
		p.LiquidationPrice = p.EntryPrice * (1 + lev - maintenanceMarginRate)
	}
}

func fillROI(p *models.Position) {
	if p.Margin > 0 {
		p.ROIPct = p.UnrealizedPNL / p.Margin * 100
	}
}
