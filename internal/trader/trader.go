package trader

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"bitunix_bot/internal/helper"
	"bitunix_bot/internal/models"
	bitunix "bitunix_bot/internal/modules/bitunix_client/service"
	"bitunix_bot/internal/modules/config"
	paper "bitunix_bot/internal/modules/paper/service"
	"bitunix_bot/pkg/logger"
)

// Trader — слой над исполнением: в бумажном режиме все действия идут в
// локальный леджер, в боевом — на биржу. Вызывающий (телеграм) не знает,
// в каком режиме работает.
type Trader struct {
	cfg    *config.Config
	client *bitunix.Client
	paper  *paper.Engine
	sizer  *Sizer
}

func New(cfg *config.Config, client *bitunix.Client, engine *paper.Engine) *Trader {
	return &Trader{
		cfg:    cfg,
		client: client,
		paper:  engine,
		sizer:  NewSizer(cfg.Risk.MaxPositionSizeUSD),
	}
}

func (t *Trader) PaperMode() bool { return t.cfg.PaperTrading }

// OpenOutcome — итог открытия позиции.
type OpenOutcome struct {
	OrderID     string
	Symbol      string
	Side        string
	Quantity    float64
	Price       float64
	NotionalUSD float64
}

// Open открывает позицию по токену: размер от уверенности сигнала,
// цена — текущая (мок в бумажном режиме).
func (t *Trader) Open(ctx context.Context, token, side string, confidence float64) (OpenOutcome, error) {
	side = strings.ToUpper(side)
	if side != "BUY" && side != "SELL" {
		return OpenOutcome{}, errors.Errorf("unknown side %q, want BUY or SELL", side)
	}

	symbol := TradingSymbol(token)
	price := t.currentPrice(ctx, symbol)

	sz, err := t.sizer.Size(symbol, price, confidence)
	if err != nil {
		return OpenOutcome{}, err
	}

	out := OpenOutcome{
		Symbol:      symbol,
		Side:        side,
		Quantity:    sz.Quantity,
		Price:       sz.Price,
		NotionalUSD: sz.NotionalUSD,
	}

	if t.cfg.PaperTrading {
		res, err := t.paper.Open(ctx, symbol, side, sz.Quantity, sz.Price)
		if err != nil {
			return OpenOutcome{}, err
		}
		out.OrderID = res.OrderID
		return out, nil
	}

	// плечо выставляем каждый раз, биржа идемпотентна к повтору
	if res, err := t.client.SetLeverage(ctx, symbol, "USDT", t.cfg.Risk.MaxLeverage, ""); err != nil || !res.OK() {
		logger.Error("set leverage %s: %v (code %d)", symbol, err, res.Code)
	}

	qty := helper.FormatQty(sz.Quantity, TokenConfig(symbol).QtyDecimals)
	res, err := t.client.PlaceMarketOrder(ctx, symbol, side, qty)
	if err != nil {
		return OpenOutcome{}, err
	}
	if !res.OK() {
		return OpenOutcome{}, errors.Errorf("place order: code %d: %s", res.Code, res.Msg)
	}

	out.OrderID = orderIDFrom(res)
	return out, nil
}

// ClosedOutcome — итог закрытия.
type ClosedOutcome struct {
	PnlUSD float64
	HasPnl bool // pnl известен только в бумажном режиме
}

// ClosePosition закрывает позицию целиком. id — бумажный order id либо
// биржевой positionId.
func (t *Trader) ClosePosition(ctx context.Context, symbol, id, reason string) (ClosedOutcome, error) {
	symbol = TradingSymbol(symbol)

	if t.cfg.PaperTrading {
		res, err := t.paper.Close(ctx, id, MockPrice(symbol), reason)
		if err != nil {
			return ClosedOutcome{}, err
		}
		return ClosedOutcome{PnlUSD: res.PnlUSD, HasPnl: true}, nil
	}

	res, err := t.client.ClosePositionFull(ctx, symbol, id)
	if err != nil {
		return ClosedOutcome{}, err
	}
	if !res.OK() {
		return ClosedOutcome{}, errors.Errorf("close: code %d: %s", res.Code, res.Msg)
	}
	return ClosedOutcome{}, nil
}

// SetTakeProfit ставит TP на 100% позиции: +2% от текущей цены для лонга,
// -2% для шорта. Возвращает использованную цену.
func (t *Trader) SetTakeProfit(ctx context.Context, symbol, positionID string) (float64, error) {
	if t.cfg.PaperTrading {
		return 0, errors.New("tp/sl orders are not supported in paper trading mode")
	}
	symbol = TradingSymbol(symbol)

	p, err := t.findLive(ctx, symbol, positionID)
	if err != nil {
		return 0, err
	}

	current := p.MarkPrice
	var tp float64
	if p.Side == models.SideLong {
		tp = current * (1 + t.cfg.Risk.TakeProfitPct/100)
	} else {
		tp = current * (1 - t.cfg.Risk.TakeProfitPct/100)
	}
	tp = FormatPrice(symbol, tp)

	res, err := t.client.SetTakeProfitFull(ctx, symbol, positionID, formatPriceStr(symbol, tp))
	if err != nil {
		return 0, err
	}
	if !res.OK() {
		return 0, errors.Errorf("set tp: code %d: %s", res.Code, res.Msg)
	}
	return tp, nil
}

// SetStopLoss ставит SL на 100% позиции: -5% от текущей цены для лонга,
// +5% для шорта. Если округление сломало направление, аварийный офсет 10%.
func (t *Trader) SetStopLoss(ctx context.Context, symbol, positionID string) (float64, error) {
	if t.cfg.PaperTrading {
		return 0, errors.New("tp/sl orders are not supported in paper trading mode")
	}
	symbol = TradingSymbol(symbol)

	p, err := t.findLive(ctx, symbol, positionID)
	if err != nil {
		return 0, err
	}

	current := p.MarkPrice
	var sl float64
	if p.Side == models.SideLong {
		sl = FormatPrice(symbol, current*(1-t.cfg.Risk.StopLossPct/100))
		if sl >= current {
			sl = FormatPrice(symbol, current*0.90)
		}
	} else {
		sl = FormatPrice(symbol, current*(1+t.cfg.Risk.StopLossPct/100))
		if sl <= current {
			sl = FormatPrice(symbol, current*1.10)
		}
	}

	res, err := t.client.SetStopLossFull(ctx, symbol, positionID, formatPriceStr(symbol, sl))
	if err != nil {
		return 0, err
	}
	if !res.OK() {
		return 0, errors.Errorf("set sl: code %d: %s", res.Code, res.Msg)
	}
	return sl, nil
}

// CloseAll закрывает все открытые позиции, возвращает их число.
func (t *Trader) CloseAll(ctx context.Context) (int, error) {
	if t.cfg.PaperTrading {
		results := t.paper.CloseAll(ctx, MockPrice, "close_all")
		return len(results), nil
	}

	open, err := t.client.OpenPositions(ctx)
	if err != nil {
		return 0, err
	}
	res, err := t.client.CloseAllPositions(ctx, "USDT")
	if err != nil {
		return 0, err
	}
	if !res.OK() {
		return 0, errors.Errorf("close all: code %d: %s", res.Code, res.Msg)
	}
	return len(open), nil
}

// Positions возвращает открытые позиции текущего режима в одном виде.
func (t *Trader) Positions(ctx context.Context) ([]models.Position, error) {
	if !t.cfg.PaperTrading {
		return t.client.OpenPositions(ctx)
	}

	var out []models.Position
	for _, p := range t.paper.OpenPositions() {
		mark := MockPrice(p.Symbol)
		pos := models.Position{
			PositionID:   p.OrderID,
			Symbol:       p.Symbol,
			Side:         models.SideFromOrder(p.Side),
			Qty:          p.Qty,
			EntryPrice:   p.EntryPrice,
			Leverage:     1,
			MarginCoin:   "USDT",
			MarkPrice:    mark,
			Margin:       p.SizeUSD,
			HasMarkPrice: true,
			HasMargin:    true,
		}
		if pos.Side == models.SideLong {
			pos.UnrealizedPNL = (mark - p.EntryPrice) * p.Qty
		} else {
			pos.UnrealizedPNL = (p.EntryPrice - mark) * p.Qty
		}
		pos.HasPNL = true
		out = append(out, pos)
	}
	return out, nil
}

// Summary — сводка по счёту. В боевом режиме статистика сделок не
// ведётся, доступны только баланс и экспозиция.
func (t *Trader) Summary(ctx context.Context) (paper.Summary, error) {
	if t.cfg.PaperTrading {
		return t.paper.Snapshot(), nil
	}

	available, equity, err := t.client.AccountBalance(ctx)
	if err != nil {
		return paper.Summary{}, err
	}
	s := paper.Summary{Balance: available}
	if equity > 0 {
		s.Balance = equity
	}

	open, err := t.client.OpenPositions(ctx)
	if err != nil {
		return s, nil
	}
	s.OpenPositions = len(open)
	for _, p := range open {
		s.TotalExposure += p.Qty * p.EntryPrice
	}
	return s, nil
}

func (t *Trader) currentPrice(ctx context.Context, symbol string) float64 {
	if t.cfg.PaperTrading {
		return MockPrice(symbol)
	}
	return t.client.CurrentPrice(ctx, symbol)
}

func (t *Trader) findLive(ctx context.Context, symbol, positionID string) (models.Position, error) {
	open, err := t.client.OpenPositions(ctx)
	if err != nil {
		return models.Position{}, err
	}
	for _, p := range open {
		if p.PositionID == positionID && p.Symbol == symbol {
			return p, nil
		}
	}
	return models.Position{}, errors.Wrapf(models.ErrPositionNotFound, "%s %s", symbol, positionID)
}

func formatPriceStr(symbol string, price float64) string {
	return helper.FormatNumber(price, TokenConfig(symbol).PriceDecimals)
}

func orderIDFrom(res models.Result) string {
	type ack struct {
		OrderID string `json:"orderId"`
	}
	var a ack
	if err := res.DecodeData(&a); err != nil {
		return ""
	}
	return a.OrderID
}
