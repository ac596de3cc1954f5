package trader

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"bitunix_bot/internal/models"
)

// TokenInfo — справка по токену вместе с текущей ценой.
type TokenInfo struct {
	models.TokenConfig
	Price float64
}

func (t *Trader) TokenInfo(ctx context.Context, symbol string) (TokenInfo, error) {
	cfg := TokenConfig(symbol)
	price := t.currentPrice(ctx, cfg.TradingSymbol)
	if price <= 0 {
		return TokenInfo{}, errors.Wrapf(models.ErrInvalidPrice, "no price for %s", cfg.TradingSymbol)
	}
	return TokenInfo{TokenConfig: cfg, Price: price}, nil
}

// Kline — одна свеча OHLCV.
type Kline struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Klines отдаёт свечи: с биржи в боевом режиме, синтетические вокруг
// мок-цены в бумажном.
func (t *Trader) Klines(ctx context.Context, symbol, interval string, limit int) ([]Kline, error) {
	symbol = TradingSymbol(symbol)
	if limit <= 0 {
		limit = 100
	}

	if t.cfg.PaperTrading {
		return mockKlines(symbol, interval, limit), nil
	}

	res := t.client.Klines(ctx, symbol, interval, limit)
	if !res.OK() {
		return nil, errors.Errorf("klines: code %d: %s", res.Code, res.Msg)
	}

	var raws []struct {
		Time    int64  `json:"time"`
		Open    string `json:"open"`
		High    string `json:"high"`
		Low     string `json:"low"`
		Close   string `json:"close"`
		BaseVol string `json:"baseVol"`
	}
	if err := sonic.Unmarshal(res.Data, &raws); err != nil {
		return nil, errors.Wrap(err, "decode klines")
	}

	out := make([]Kline, 0, len(raws))
	for _, r := range raws {
		out = append(out, Kline{
			Time:   r.Time,
			Open:   parseF(r.Open),
			High:   parseF(r.High),
			Low:    parseF(r.Low),
			Close:  parseF(r.Close),
			Volume: parseF(r.BaseVol),
		})
	}
	return out, nil
}

// mockKlines — детерминированная пила ±1% вокруг мок-цены, чтобы графики и
// расчёты в бумажном режиме имели на чём работать.
func mockKlines(symbol, interval string, limit int) []Kline {
	base := MockPrice(symbol)
	step := intervalDuration(interval)
	start := time.Now().Add(-time.Duration(limit) * step)

	out := make([]Kline, 0, limit)
	for i := 0; i < limit; i++ {
		wave := float64(i%10-5) / 500 // ±1%
		open := base * (1 + wave)
		close := base * (1 + float64((i+1)%10-5)/500)
		high := open
		if close > high {
			high = close
		}
		low := open
		if close < low {
			low = close
		}
		out = append(out, Kline{
			Time:   start.Add(time.Duration(i) * step).UnixMilli(),
			Open:   open,
			High:   high * 1.001,
			Low:    low * 0.999,
			Close:  close,
			Volume: 1000,
		})
	}
	return out
}

func intervalDuration(interval string) time.Duration {
	if d, err := time.ParseDuration(interval); err == nil && d > 0 {
		return d
	}
	switch interval {
	case "1d":
		return 24 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "1h":
		return time.Hour
	case "15m":
		return 15 * time.Minute
	case "5m":
		return 5 * time.Minute
	default:
		return time.Minute
	}
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
