package service

import (
	"strconv"
	"strings"

	"bitunix_bot/internal/models"
)

// rawPosition — позиция как её отдаёт биржа: числа строками, часть полей
// может отсутствовать.
type rawPosition struct {
	PositionID    string `json:"positionId"`
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	Side          string `json:"side"` // BUY/SELL
	AvgOpenPrice  string `json:"avgOpenPrice"`
	Leverage      int    `json:"leverage"`
	MarginCoin    string `json:"marginCoin"`
	MarkPrice     string `json:"markPrice"`
	Margin        string `json:"margin"`
	MarginRate    string `json:"marginRate"` // "3.11%"
	UnrealizedPNL string `json:"unrealizedPNL"`
}

func (r rawPosition) toPosition() models.Position {
	lev := r.Leverage
	if lev < 1 {
		lev = 1
	}

	p := models.Position{
		PositionID: r.PositionID,
		Symbol:     r.Symbol,
		Side:       models.SideFromOrder(r.Side),
		Qty:        fnum(r.Qty),
		EntryPrice: fnum(r.AvgOpenPrice),
		Leverage:   lev,
		MarginCoin: r.MarginCoin,
	}

	if v := fnum(r.MarkPrice); v > 0 {
		p.MarkPrice = v
		p.HasMarkPrice = true
	}
	if v := fnum(r.Margin); v > 0 {
		p.Margin = v
		p.HasMargin = true
	}
	if v := fnum(strings.TrimSuffix(r.MarginRate, "%")); v > 0 {
		p.MarginRate = v
	}
	if r.UnrealizedPNL != "" {
		if v := fnum(r.UnrealizedPNL); v != 0 {
			p.UnrealizedPNL = v
			p.HasPNL = true
		}
	}
	return p
}

type rawTicker struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
	Price     string `json:"price"`
	MarkPrice string `json:"markPrice"`
}

func (t rawTicker) price() float64 {
	if v := fnum(t.LastPrice); v > 0 {
		return v
	}
	if v := fnum(t.Price); v > 0 {
		return v
	}
	return fnum(t.MarkPrice)
}

type rawAccount struct {
	MarginCoin  string `json:"marginCoin"`
	Available   string `json:"available"`
	TotalMargin string `json:"totalMargin"`
	Equity      string `json:"equity"`
}

func fnum(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
