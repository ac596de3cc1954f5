package trader

import (
	"bitunix_bot/internal/helper"
	"bitunix_bot/internal/models"
)

// SizeResult — результат расчёта размера позиции.
type SizeResult struct {
	Quantity    float64
	NotionalUSD float64
	Price       float64
}

// Sizer считает размер позиции от целевого риска в USD и уверенности
// сигнала. Размер ограничен снизу минимальным количеством токена.
type Sizer struct {
	maxRiskUSD float64
}

func NewSizer(maxRiskUSD float64) *Sizer {
	return &Sizer{maxRiskUSD: maxRiskUSD}
}

// Size: номинал = maxRiskUSD * confidence, количество = номинал / цена,
// не меньше минимума токена, округлено до точности токена.
func (s *Sizer) Size(symbol string, price, confidence float64) (SizeResult, error) {
	if price <= 0 {
		return SizeResult{}, models.ErrInvalidPrice
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	cfg := TokenConfig(symbol)
	notional := s.maxRiskUSD * confidence

	qty := notional / price
	if qty < cfg.MinQty {
		qty = cfg.MinQty
	}
	qty = helper.RoundToDecimals(qty, cfg.QtyDecimals)

	return SizeResult{
		Quantity:    qty,
		NotionalUSD: qty * price,
		Price:       price,
	}, nil
}
