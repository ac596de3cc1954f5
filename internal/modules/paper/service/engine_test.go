package service

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitunix_bot/internal/models"
	"bitunix_bot/internal/modules/config"
	"bitunix_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Paper.StartBalance = 25.0
	cfg.Paper.StatePath = filepath.Join(dir, "paper_trading_data.json")
	cfg.Paper.AuditPath = filepath.Join(dir, "logs", "trades.json")
	cfg.Risk.MaxPositionSizeUSD = 5.0
	cfg.Risk.MinPositionSizeUSD = 1.0
	cfg.Risk.MaxTotalExposureUSD = 20.0
	cfg.Risk.MaxDailyTrades = 10
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	return e
}

func TestOpenCloseRoundTrip(t *testing.T) {
	e := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	res, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)
	assert.InDelta(t, 1.5, res.SizeUSD, 1e-9)
	assert.InDelta(t, 0.0015, res.FeeUSD, 1e-9)

	// баланс: 25 - (1.5 + 0.0015)
	assert.InDelta(t, 23.4985, e.Snapshot().Balance, 1e-9)

	closed, err := e.Close(ctx, res.OrderID, 0.80, "manual")
	require.NoError(t, err)
	// (0.80-0.75)*2 - 0.0015 - 2*0.80*0.001
	assert.InDelta(t, 0.0969, closed.PnlUSD, 1e-9)
	assert.Equal(t, models.PaperClosed, closed.Position.Status)

	s := e.Snapshot()
	assert.InDelta(t, 25.0969, s.Balance, 1e-9)
	assert.Zero(t, s.OpenPositions)
	assert.Equal(t, 1, s.TotalTrades)

	// повторное закрытие того же id
	_, err = e.Close(ctx, res.OrderID, 0.80, "manual")
	assert.ErrorIs(t, err, models.ErrAlreadyClosed)
}

func TestShortPnl(t *testing.T) {
	e := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	res, err := e.Open(ctx, "XRPUSDT", "SELL", 2.0, 0.80)
	require.NoError(t, err)

	closed, err := e.Close(ctx, res.OrderID, 0.75, "manual")
	require.NoError(t, err)
	// (0.80-0.75)*2 - 0.0016 - 2*0.75*0.001
	assert.InDelta(t, 0.0969, closed.PnlUSD, 1e-9)
}

func TestOpenRejectsOversizedPosition(t *testing.T) {
	e := newTestEngine(t, testConfig(t))
	before := e.Snapshot()

	_, err := e.Open(context.Background(), "SOLUSDT", "BUY", 1.0, 125.50)
	assert.ErrorIs(t, err, models.ErrLimitExceeded)

	// отказ без частичного эффекта
	after := e.Snapshot()
	assert.Equal(t, before.Balance, after.Balance)
	assert.Equal(t, before.TotalTrades, after.TotalTrades)
	assert.Equal(t, before.DailyTrades, after.DailyTrades)
}

func TestOpenRejectsTooSmallPosition(t *testing.T) {
	e := newTestEngine(t, testConfig(t))

	_, err := e.Open(context.Background(), "XRPUSDT", "BUY", 1.0, 0.75)
	assert.ErrorIs(t, err, models.ErrLimitExceeded)
}

func TestOpenRejectsExposureOverflow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Risk.MaxTotalExposureUSD = 3.0
	e := newTestEngine(t, cfg)
	ctx := context.Background()

	_, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 1.0)
	require.NoError(t, err)

	_, err = e.Open(ctx, "ADAUSDT", "BUY", 2.0, 1.0)
	assert.ErrorIs(t, err, models.ErrLimitExceeded)
}

func TestOpenRejectsWithoutBalanceBuffer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paper.StartBalance = 2.0
	e := newTestEngine(t, cfg)

	// 1.8 ≤ max 5, но больше 2.0*0.8
	_, err := e.Open(context.Background(), "XRPUSDT", "BUY", 1.8, 1.0)
	assert.ErrorIs(t, err, models.ErrLimitExceeded)
}

func TestDailyLimitAndRollover(t *testing.T) {
	cfg := testConfig(t)
	cfg.Risk.MaxDailyTrades = 2
	e := newTestEngine(t, cfg)
	ctx := context.Background()

	t0 := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := t0
	e.now = func() time.Time { return clock }
	e.lastReset = dateOf(t0)

	for i := 0; i < 2; i++ {
		_, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
		require.NoError(t, err)
		clock = clock.Add(time.Second)
	}

	_, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	assert.ErrorIs(t, err, models.ErrLimitExceeded)
	assert.Equal(t, 2, e.Snapshot().DailyTrades)

	// новый календарный день — счётчик обнуляется
	clock = t0.Add(25 * time.Hour)
	_, err = e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Snapshot().DailyTrades)
}

func TestWinRate(t *testing.T) {
	e := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	assert.Zero(t, e.Snapshot().WinRate)

	win, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	require.NoError(t, err)
	loss, err := e.Open(ctx, "ADAUSDT", "BUY", 4.0, 0.45)
	require.NoError(t, err)

	_, err = e.Close(ctx, win.OrderID, 0.85, "tp")
	require.NoError(t, err)
	_, err = e.Close(ctx, loss.OrderID, 0.40, "sl")
	require.NoError(t, err)

	assert.InDelta(t, 50.0, e.Snapshot().WinRate, 1e-9)
}

func TestCloseUnknownOrder(t *testing.T) {
	e := newTestEngine(t, testConfig(t))

	_, err := e.Close(context.Background(), "PAPER_missing", 1.0, "manual")
	assert.ErrorIs(t, err, models.ErrPositionNotFound)
}

func TestCloseAllIndependent(t *testing.T) {
	e := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	_, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	require.NoError(t, err)
	_, err = e.Open(ctx, "ADAUSDT", "SELL", 4.0, 0.45)
	require.NoError(t, err)

	results := e.CloseAll(ctx, func(symbol string) float64 {
		if symbol == "XRPUSDT" {
			return 0.80
		}
		return 0.44
	}, "close_all")

	assert.Len(t, results, 2)
	assert.Zero(t, e.Snapshot().OpenPositions)
}

func TestStateSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEngine(t, cfg)
	ctx := context.Background()

	res, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	require.NoError(t, err)
	balance := e.Snapshot().Balance

	e2 := newTestEngine(t, cfg)
	s := e2.Snapshot()
	assert.InDelta(t, balance, s.Balance, 1e-9)
	assert.Equal(t, 1, s.OpenPositions)

	// позиция доступна к закрытию после рестарта
	_, err = e2.Close(ctx, res.OrderID, 0.80, "manual")
	require.NoError(t, err)
}

func TestAuditLogAppendsNDJSON(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEngine(t, cfg)
	ctx := context.Background()

	res, err := e.Open(ctx, "XRPUSDT", "BUY", 2.0, 0.75)
	require.NoError(t, err)
	_, err = e.Close(ctx, res.OrderID, 0.80, "manual")
	require.NoError(t, err)

	f, err := os.Open(cfg.Paper.AuditPath)
	require.NoError(t, err)
	defer f.Close()

	var actions []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec struct {
			Action string `json:"action"`
		}
		require.NoError(t, sonic.Unmarshal(sc.Bytes(), &rec))
		actions = append(actions, rec.Action)
	}
	assert.Equal(t, []string{"open_position", "close_position"}, actions)
}
