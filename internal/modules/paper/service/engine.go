package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"bitunix_bot/internal/models"
	"bitunix_bot/internal/modules/config"
	"bitunix_bot/pkg/logger"
)

const feeRate = 0.001 // 0.1% на вход и на выход

// TradeArchive — опциональный архив закрытых сделок (постгрес).
// nil допустим — тогда архивирование выключено.
type TradeArchive interface {
	InsertClosed(ctx context.Context, p models.PaperPosition) error
}

// Engine — бумажный леджер. Один процесс, одна инстанция, все мутации
// баланса/позиций/дневного счётчика под одним мьютексом: проверки
// допуска и запись эффекта должны быть атомарны.
type Engine struct {
	mu sync.Mutex

	balance        float64
	positions      map[string]*models.PaperPosition
	dailyTrades    int
	lastReset      time.Time // только дата
	startBalance   float64
	maxPositionUSD float64
	minPositionUSD float64
	maxExposureUSD float64
	maxDailyTrades int

	statePath string
	auditPath string
	archive   TradeArchive

	now func() time.Time
}

// OpenResult — результат симулированного открытия.
type OpenResult struct {
	OrderID string
	SizeUSD float64
	FeeUSD  float64
}

// CloseResult — результат симулированного закрытия.
type CloseResult struct {
	PnlUSD    float64
	ExitPrice float64
	Position  models.PaperPosition
}

// Summary — снимок леджера.
type Summary struct {
	Balance       float64
	TotalExposure float64
	OpenPositions int
	TotalTrades   int
	RealizedPnl   float64
	WinRate       float64
	DailyTrades   int
}

func NewEngine(cfg *config.Config, archive TradeArchive) (*Engine, error) {
	e := &Engine{
		balance:        cfg.Paper.StartBalance,
		positions:      make(map[string]*models.PaperPosition),
		startBalance:   cfg.Paper.StartBalance,
		maxPositionUSD: cfg.Risk.MaxPositionSizeUSD,
		minPositionUSD: cfg.Risk.MinPositionSizeUSD,
		maxExposureUSD: cfg.Risk.MaxTotalExposureUSD,
		maxDailyTrades: cfg.Risk.MaxDailyTrades,
		statePath:      cfg.Paper.StatePath,
		auditPath:      cfg.Paper.AuditPath,
		archive:        archive,
		now:            time.Now,
	}
	e.lastReset = dateOf(e.now())

	if dir := filepath.Dir(e.auditPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "mkdir audit dir")
		}
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

// Open симулирует открытие позиции. Все проверки допуска и эффект —
// одна критическая секция, при отказе состояние не меняется.
func (e *Engine) Open(ctx context.Context, symbol, side string, qty, price float64) (OpenResult, error) {
	if price <= 0 {
		return OpenResult{}, models.ErrInvalidPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rollDailyLocked()

	sizeUSD := qty * price
	if err := e.admitLocked(sizeUSD); err != nil {
		return OpenResult{}, err
	}

	feeUSD := sizeUSD * feeRate
	orderID := fmt.Sprintf("PAPER_%d", e.now().UnixNano())

	p := &models.PaperPosition{
		OrderID:    orderID,
		Symbol:     symbol,
		Side:       side,
		Qty:        qty,
		EntryPrice: price,
		SizeUSD:    sizeUSD,
		FeeUSD:     feeUSD,
		Status:     models.PaperOpen,
		OpenedAt:   e.now(),
	}

	e.positions[orderID] = p
	e.balance -= sizeUSD + feeUSD
	e.dailyTrades++

	e.appendAuditLocked("open_position", *p)
	e.saveLocked()

	return OpenResult{OrderID: orderID, SizeUSD: sizeUSD, FeeUSD: feeUSD}, nil
}

// Close симулирует закрытие позиции. Статус переводится в closed ровно
// один раз, повторное закрытие — ErrAlreadyClosed.
func (e *Engine) Close(ctx context.Context, orderID string, exitPrice float64, reason string) (CloseResult, error) {
	if exitPrice <= 0 {
		return CloseResult{}, models.ErrInvalidPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.positions[orderID]
	if !ok {
		return CloseResult{}, errors.Wrapf(models.ErrPositionNotFound, "order %s", orderID)
	}
	if p.Status != models.PaperOpen {
		return CloseResult{}, errors.Wrapf(models.ErrAlreadyClosed, "order %s", orderID)
	}

	var pnl float64
	if p.Side == "BUY" {
		pnl = (exitPrice - p.EntryPrice) * p.Qty
	} else {
		pnl = (p.EntryPrice - exitPrice) * p.Qty
	}

	exitSize := p.Qty * exitPrice
	exitFee := exitSize * feeRate
	netPnl := pnl - p.FeeUSD - exitFee

	e.balance += exitSize - exitFee

	p.Status = models.PaperClosed
	p.ExitPrice = exitPrice
	p.ExitFeeUSD = exitFee
	p.PnlUSD = netPnl
	p.CloseReason = reason
	p.ClosedAt = e.now()

	e.appendAuditLocked("close_position", *p)
	e.saveLocked()

	if e.archive != nil {
		if err := e.archive.InsertClosed(ctx, *p); err != nil {
			logger.Error("archive closed trade %s: %v", orderID, err)
		}
	}

	return CloseResult{PnlUSD: netPnl, ExitPrice: exitPrice, Position: *p}, nil
}

// CloseAll закрывает все открытые позиции независимо: отказ по одной не
// прерывает остальные. priceFor даёт цену выхода по символу.
func (e *Engine) CloseAll(ctx context.Context, priceFor func(symbol string) float64, reason string) []CloseResult {
	e.mu.Lock()
	var ids []string
	for id, p := range e.positions {
		if p.Status == models.PaperOpen {
			ids = append(ids, id)
		}
	}
	e.mu.Unlock()

	var out []CloseResult
	for _, id := range ids {
		e.mu.Lock()
		symbol := e.positions[id].Symbol
		e.mu.Unlock()

		res, err := e.Close(ctx, id, priceFor(symbol), reason)
		if err != nil {
			logger.Error("close all: %s: %v", id, err)
			continue
		}
		out = append(out, res)
	}
	return out
}

// OpenPositions возвращает копии всех открытых бумажных позиций.
func (e *Engine) OpenPositions() []models.PaperPosition {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.PaperPosition
	for _, p := range e.positions {
		if p.Status == models.PaperOpen {
			out = append(out, *p)
		}
	}
	return out
}

// Snapshot — текущий снимок леджера.
func (e *Engine) Snapshot() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{
		Balance:     e.balance,
		TotalTrades: len(e.positions),
		DailyTrades: e.dailyTrades,
	}

	var closed, wins int
	for _, p := range e.positions {
		switch p.Status {
		case models.PaperOpen:
			s.OpenPositions++
			s.TotalExposure += p.SizeUSD
		case models.PaperClosed:
			closed++
			s.RealizedPnl += p.PnlUSD
			if p.PnlUSD > 0 {
				wins++
			}
		}
	}
	if closed > 0 {
		s.WinRate = float64(wins) / float64(closed) * 100
	}
	return s
}

// Save пишет состояние на диск по требованию.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistLocked()
}

func (e *Engine) admitLocked(sizeUSD float64) error {
	if e.dailyTrades >= e.maxDailyTrades {
		return errors.Wrap(models.ErrLimitExceeded, "daily trade limit reached")
	}
	if sizeUSD > e.maxPositionUSD {
		return errors.Wrapf(models.ErrLimitExceeded, "size %.2f above max %.2f", sizeUSD, e.maxPositionUSD)
	}
	if sizeUSD < e.minPositionUSD {
		return errors.Wrapf(models.ErrLimitExceeded, "size %.2f below min %.2f", sizeUSD, e.minPositionUSD)
	}

	var exposure float64
	for _, p := range e.positions {
		if p.Status == models.PaperOpen {
			exposure += p.SizeUSD
		}
	}
	if exposure+sizeUSD > e.maxExposureUSD {
		return errors.Wrapf(models.ErrLimitExceeded, "exposure %.2f+%.2f above max %.2f", exposure, sizeUSD, e.maxExposureUSD)
	}

	// резервный буфер: не больше 80% баланса в одну позицию
	if sizeUSD > e.balance*0.8 {
		return errors.Wrap(models.ErrLimitExceeded, "insufficient balance buffer")
	}
	return nil
}

func (e *Engine) rollDailyLocked() {
	today := dateOf(e.now())
	if today.After(e.lastReset) {
		e.dailyTrades = 0
		e.lastReset = today
	}
}

type ledgerState struct {
	Balance    float64                          `json:"balance"`
	Positions  map[string]*models.PaperPosition `json:"positions"`
	DailyCount int                              `json:"daily_trade_count"`
	LastUpdate time.Time                        `json:"last_update"`
}

func (e *Engine) load() error {
	raw, err := os.ReadFile(e.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read ledger state")
	}

	var st ledgerState
	if err := sonic.Unmarshal(raw, &st); err != nil {
		return errors.Wrap(err, "decode ledger state")
	}
	e.balance = st.Balance
	if st.Positions != nil {
		e.positions = st.Positions
	}
	e.dailyTrades = st.DailyCount
	return nil
}

func (e *Engine) persistLocked() error {
	st := ledgerState{
		Balance:    e.balance,
		Positions:  e.positions,
		DailyCount: e.dailyTrades,
		LastUpdate: e.now(),
	}
	raw, err := sonic.ConfigStd.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode ledger state")
	}
	if err := os.WriteFile(e.statePath, raw, 0o644); err != nil {
		return errors.Wrap(err, "write ledger state")
	}
	return nil
}

// saveLocked — best effort, отказ диска не должен ронять сделку.
func (e *Engine) saveLocked() {
	if err := e.persistLocked(); err != nil {
		logger.Error("save ledger: %v", err)
	}
}

type auditRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	Action    string               `json:"action"`
	Data      models.PaperPosition `json:"data"`
}

// appendAuditLocked дописывает событие в append-only журнал.
func (e *Engine) appendAuditLocked(action string, p models.PaperPosition) {
	raw, err := sonic.ConfigStd.Marshal(auditRecord{
		Timestamp: e.now(),
		Action:    action,
		Data:      p,
	})
	if err != nil {
		logger.Error("encode audit record: %v", err)
		return
	}

	f, err := os.OpenFile(e.auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("open audit log: %v", err)
		return
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(append(raw, '\n')); err != nil {
		logger.Error("write audit log: %v", err)
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
