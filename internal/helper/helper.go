package helper

import (
	"math"
	"strconv"
	"strings"
)

// RoundToDecimals округляет до заданного числа знаков после запятой.
func RoundToDecimals(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow+math.Copysign(1e-9, v)) / pow
}

// FormatNumber печатает число без хвостовых нулей (для сообщений юзеру).
func FormatNumber(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// FormatQty — количество для тела запроса: фиксированная точность без
// экспоненты, хвостовые нули обрезаны.
func FormatQty(qty float64, decimals int) string {
	return FormatNumber(RoundToDecimals(qty, decimals), decimals)
}

// BaseAsset отрезает суффикс котируемой валюты: XRPUSDT -> XRP.
func BaseAsset(symbol string) string {
	return strings.TrimSuffix(symbol, "USDT")
}
