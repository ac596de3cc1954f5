package trader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperTokenInfo(t *testing.T) {
	tr := newPaperTrader(t)

	info, err := tr.TokenInfo(context.Background(), "XRP")
	require.NoError(t, err)
	assert.Equal(t, "XRPUSDT", info.TradingSymbol)
	assert.InDelta(t, 0.75, info.Price, 1e-9)
	assert.InDelta(t, 2.0, info.MinQty, 1e-9)
}

func TestPaperKlinesSynthetic(t *testing.T) {
	tr := newPaperTrader(t)

	klines, err := tr.Klines(context.Background(), "SOL", "1h", 24)
	require.NoError(t, err)
	require.Len(t, klines, 24)

	for _, k := range klines {
		assert.GreaterOrEqual(t, k.High, k.Open)
		assert.GreaterOrEqual(t, k.High, k.Close)
		assert.LessOrEqual(t, k.Low, k.Open)
		assert.LessOrEqual(t, k.Low, k.Close)
		// синтетика держится в окрестности мок-цены
		assert.InDelta(t, 125.50, k.Close, 125.50*0.02)
	}
	assert.Less(t, klines[0].Time, klines[23].Time)
}
