package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToDecimals(t *testing.T) {
	assert.InDelta(t, 0.75, RoundToDecimals(0.7499999999, 4), 1e-9)
	assert.InDelta(t, 2.5, RoundToDecimals(2.5, 1), 1e-9)
	assert.InDelta(t, 125.5, RoundToDecimals(125.499, 2), 1e-3)
	assert.InDelta(t, -1.23, RoundToDecimals(-1.2349, 2), 1e-9)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2.5", FormatNumber(2.50, 4))
	assert.Equal(t, "10", FormatNumber(10.0, 2))
	assert.Equal(t, "0.0001", FormatNumber(0.0001, 4))
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "2.5", FormatQty(2.5000001, 1))
	assert.Equal(t, "0.01", FormatQty(0.01, 3))
}

func TestBaseAsset(t *testing.T) {
	assert.Equal(t, "XRP", BaseAsset("XRPUSDT"))
	assert.Equal(t, "SOL", BaseAsset("SOLUSDT"))
	assert.Equal(t, "BTC", BaseAsset("BTC"))
}
