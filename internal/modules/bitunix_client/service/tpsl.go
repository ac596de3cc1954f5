package service

import (
	"context"
	"strconv"

	"bitunix_bot/internal/models"

	"github.com/pkg/errors"
)

// PlacePositionTPSL ставит TP/SL на позицию по символу, без positionId
// (эндпоинт trade/place_position_tp_sl_order). Любая из частей опциональна.
func (c *Client) PlacePositionTPSL(ctx context.Context, req models.TPSLRequest) (models.Result, error) {
	if !req.Valid() {
		return models.Result{}, errors.New("tpsl: neither tp nor sl price set")
	}

	stopType := string(req.StopType)
	if stopType == "" {
		stopType = string(models.StopMark)
	}

	body := map[string]any{"symbol": req.Symbol}
	if req.TPPrice != "" {
		body["tpPrice"] = req.TPPrice
		body["tpStopType"] = stopType
		body["tpOrderType"] = string(models.OrderMarket)
		if req.TPQty != "" {
			body["tpQty"] = req.TPQty
		}
	}
	if req.SLPrice != "" {
		body["slPrice"] = req.SLPrice
		body["slStopType"] = stopType
		body["slOrderType"] = string(models.OrderMarket)
		if req.SLQty != "" {
			body["slQty"] = req.SLQty
		}
	}
	return c.PostJSON(ctx, "/api/v1/futures/trade/place_position_tp_sl_order", body)
}

// PlaceTPSLByID ставит TP/SL на конкретную позицию без явного количества
// (эндпоинт tpsl/position/place_order).
func (c *Client) PlaceTPSLByID(ctx context.Context, req models.TPSLRequest) (models.Result, error) {
	if !req.Valid() {
		return models.Result{}, errors.New("tpsl: neither tp nor sl price set")
	}

	stopType := string(req.StopType)
	if stopType == "" {
		stopType = string(models.StopLastPrice)
	}

	body := map[string]any{
		"symbol":     req.Symbol,
		"positionId": req.PositionID,
	}
	if req.TPPrice != "" {
		body["tpPrice"] = req.TPPrice
		body["tpStopType"] = stopType
	}
	if req.SLPrice != "" {
		body["slPrice"] = req.SLPrice
		body["slStopType"] = stopType
	}
	return c.PostJSON(ctx, "/api/v1/futures/tpsl/position/place_order", body)
}

// PlaceTPSLWithQty ставит TP/SL с явными количествами
// (эндпоинт tpsl/place_order). Требуется хотя бы одна цена и хотя бы одно
// количество.
func (c *Client) PlaceTPSLWithQty(ctx context.Context, req models.TPSLRequest) (models.Result, error) {
	if !req.Valid() {
		return models.Result{}, errors.New("tpsl: neither tp nor sl price set")
	}
	if req.TPQty == "" && req.SLQty == "" {
		return models.Result{}, errors.New("tpsl: neither tp nor sl qty set")
	}

	stopType := string(req.StopType)
	if stopType == "" {
		stopType = string(models.StopLastPrice)
	}

	body := map[string]any{
		"symbol":     req.Symbol,
		"positionId": req.PositionID,
	}
	if req.TPPrice != "" {
		body["tpPrice"] = req.TPPrice
		body["tpStopType"] = stopType
		body["tpOrderType"] = string(models.OrderMarket)
	}
	if req.SLPrice != "" {
		body["slPrice"] = req.SLPrice
		body["slStopType"] = stopType
		body["slOrderType"] = string(models.OrderMarket)
	}
	if req.TPQty != "" {
		body["tpQty"] = req.TPQty
	}
	if req.SLQty != "" {
		body["slQty"] = req.SLQty
	}
	return c.PostJSON(ctx, "/api/v1/futures/tpsl/place_order", body)
}

// SetTakeProfitFull ставит TP на 100% позиции: количество всегда берётся
// из живой позиции на бирже, а не от вызывающего — иначе частичные
// исполнения после последнего просмотра оставят хвост.
func (c *Client) SetTakeProfitFull(ctx context.Context, symbol, positionID, tpPrice string) (models.Result, error) {
	p, err := c.findPosition(ctx, symbol, positionID)
	if err != nil {
		return models.Result{}, err
	}

	return c.PlaceTPSLWithQty(ctx, models.TPSLRequest{
		Symbol:     symbol,
		PositionID: positionID,
		TPPrice:    tpPrice,
		TPQty:      formatQty(p.Qty),
		StopType:   models.StopLastPrice,
	})
}

// SetStopLossFull ставит SL на 100% позиции, количество — живое с биржи.
func (c *Client) SetStopLossFull(ctx context.Context, symbol, positionID, slPrice string) (models.Result, error) {
	p, err := c.findPosition(ctx, symbol, positionID)
	if err != nil {
		return models.Result{}, err
	}

	return c.PlaceTPSLWithQty(ctx, models.TPSLRequest{
		Symbol:     symbol,
		PositionID: positionID,
		SLPrice:    slPrice,
		SLQty:      formatQty(p.Qty),
		StopType:   models.StopLastPrice,
	})
}

func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}
