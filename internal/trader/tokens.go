package trader

import (
	"strings"

	"bitunix_bot/internal/helper"
	"bitunix_bot/internal/models"
)

// tokenConfigs — статичная справка по поддерживаемым токенам. Минимальные
// количества сверены с реальными требованиями биржи.
var tokenConfigs = map[string]models.TokenConfig{
	"XRP":  {TradingSymbol: "XRPUSDT", MinQty: 2.0, PriceDecimals: 4, QtyDecimals: 1, SentimentWeight: 1.0},
	"ADA":  {TradingSymbol: "ADAUSDT", MinQty: 1.0, PriceDecimals: 4, QtyDecimals: 1, SentimentWeight: 1.0},
	"SUI":  {TradingSymbol: "SUIUSDT", MinQty: 0.1, PriceDecimals: 4, QtyDecimals: 2, SentimentWeight: 1.2},
	"UNI":  {TradingSymbol: "UNIUSDT", MinQty: 0.1, PriceDecimals: 3, QtyDecimals: 2, SentimentWeight: 1.0},
	"LINK": {TradingSymbol: "LINKUSDT", MinQty: 0.1, PriceDecimals: 3, QtyDecimals: 2, SentimentWeight: 1.0},
	"SOL":  {TradingSymbol: "SOLUSDT", MinQty: 0.01, PriceDecimals: 2, QtyDecimals: 3, SentimentWeight: 1.1},
}

// mockPrices — цены для бумажного режима, когда дёргать биржу незачем.
var mockPrices = map[string]float64{
	"XRPUSDT":  0.75,
	"ADAUSDT":  0.45,
	"SUIUSDT":  1.85,
	"UNIUSDT":  8.50,
	"LINKUSDT": 15.20,
	"SOLUSDT":  125.50,
}

// TokenConfig возвращает конфигурацию токена по базовому активу или
// торговой паре. Неизвестный токен получает консервативный дефолт.
func TokenConfig(symbol string) models.TokenConfig {
	base := strings.ToUpper(helper.BaseAsset(symbol))
	if cfg, ok := tokenConfigs[base]; ok {
		return cfg
	}
	return models.TokenConfig{
		TradingSymbol:   base + "USDT",
		MinQty:          0.01,
		PriceDecimals:   4,
		QtyDecimals:     3,
		SentimentWeight: 1.0,
	}
}

// TradingSymbol мапит базовый актив в торговую пару: XRP -> XRPUSDT.
func TradingSymbol(symbol string) string {
	return TokenConfig(symbol).TradingSymbol
}

// MockPrice — цена символа в бумажном режиме, 1.0 для неизвестных.
func MockPrice(tradingSymbol string) float64 {
	if p, ok := mockPrices[tradingSymbol]; ok {
		return p
	}
	return 1.0
}

// FormatQuantity округляет количество до точности токена.
func FormatQuantity(symbol string, qty float64) float64 {
	return helper.RoundToDecimals(qty, TokenConfig(symbol).QtyDecimals)
}

// FormatPrice округляет цену до точности токена.
func FormatPrice(symbol string, price float64) float64 {
	return helper.RoundToDecimals(price, TokenConfig(symbol).PriceDecimals)
}
