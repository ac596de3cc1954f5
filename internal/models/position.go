package models

import "time"

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// SideFromOrder мапит сторону ордера биржи (BUY/SELL) в сторону позиции.
func SideFromOrder(side string) Side {
	if side == "SELL" {
		return SideShort
	}
	return SideLong
}

// Position — открытая позиция на бирже. Поля MarkPrice/Margin/MarginRate/
// UnrealizedPNL/LiquidationPrice могут отсутствовать в ответе и тогда
// дозаполняются резолвером (авторитетное значение всегда важнее выведенного).
type Position struct {
	PositionID string
	Symbol     string
	Side       Side
	Qty        float64
	EntryPrice float64
	Leverage   int
	MarginCoin string

	MarkPrice        float64
	Margin           float64
	MarginRate       float64 // в процентах
	UnrealizedPNL    float64
	LiquidationPrice float64
	ROIPct           float64

	// какие поля пришли от биржи, а не выведены
	HasMarkPrice bool
	HasMargin    bool
	HasPNL       bool
}

type OrderType string

const (
	OrderMarket OrderType = "MARKET"
	OrderLimit  OrderType = "LIMIT"
)

type TradeSide string

const (
	TradeOpen  TradeSide = "OPEN"
	TradeClose TradeSide = "CLOSE"
)

type StopType string

const (
	StopLastPrice StopType = "LAST_PRICE"
	StopMark      StopType = "MARK"
)

// TPSLRequest — запрос на установку TP/SL. Хотя бы одна из цен обязана
// присутствовать.
type TPSLRequest struct {
	Symbol     string
	PositionID string
	TPPrice    string
	SLPrice    string
	TPQty      string
	SLQty      string
	StopType   StopType
}

func (r TPSLRequest) Valid() bool { return r.TPPrice != "" || r.SLPrice != "" }

type PaperStatus string

const (
	PaperOpen   PaperStatus = "open"
	PaperClosed PaperStatus = "closed"
)

// PaperPosition — запись бумажной сделки. Создаётся при симулированном
// открытии, ровно один раз переводится в closed, никогда не удаляется.
type PaperPosition struct {
	OrderID    string      `json:"order_id"`
	Symbol     string      `json:"symbol"`
	Side       string      `json:"side"` // BUY/SELL, как у биржи
	Qty        float64     `json:"quantity"`
	EntryPrice float64     `json:"entry_price"`
	SizeUSD    float64     `json:"size_usd"`
	FeeUSD     float64     `json:"fee_usd"`
	Status     PaperStatus `json:"status"`
	OpenedAt   time.Time   `json:"timestamp"`

	ExitPrice   float64   `json:"exit_price,omitempty"`
	ExitFeeUSD  float64   `json:"exit_fee_usd,omitempty"`
	PnlUSD      float64   `json:"pnl_usd,omitempty"`
	CloseReason string    `json:"close_reason,omitempty"`
	ClosedAt    time.Time `json:"exit_timestamp,omitempty"`
}

// TokenConfig — статичная справочная конфигурация токена.
type TokenConfig struct {
	TradingSymbol   string  `yaml:"symbol"`
	MinQty          float64 `yaml:"min_qty"`
	PriceDecimals   int     `yaml:"price_decimals"`
	QtyDecimals     int     `yaml:"qty_decimals"`
	SentimentWeight float64 `yaml:"sentiment_weight"`
}
