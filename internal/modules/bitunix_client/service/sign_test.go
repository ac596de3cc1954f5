package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHeaders(t *testing.T) {
	headers := authHeaders("key", "secret", "", "{}", "abc", "1700000000000")

	// прогнанный руками вектор: sha256(sha256(nonce+ts+key+query+body)+secret)
	assert.Equal(t, "b8ddc8752523c96349a59fe18ac6f0e9a337da271958960c6104b8ad9e2fb221", headers["sign"])
	assert.Equal(t, "key", headers["api-key"])
	assert.Equal(t, "abc", headers["nonce"])
	assert.Equal(t, "1700000000000", headers["timestamp"])
	assert.Equal(t, "application/json", headers["Content-Type"])
}

func TestAuthHeadersDeterministic(t *testing.T) {
	a := authHeaders("key", "secret", "q=1", `{"x":1}`, "n", "1")
	b := authHeaders("key", "secret", "q=1", `{"x":1}`, "n", "1")
	assert.Equal(t, a["sign"], b["sign"])
}

func TestAuthHeadersBodySensitive(t *testing.T) {
	a := authHeaders("key", "secret", "", `{"qty":"1"}`, "n", "1")
	b := authHeaders("key", "secret", "", `{"qty":"2"}`, "n", "1")
	assert.NotEqual(t, a["sign"], b["sign"])

	// query string тоже входит в подпись
	c := authHeaders("key", "secret", "marginCoin=USDT", "", "n", "1")
	d := authHeaders("key", "secret", "marginCoin=BTC", "", "n", "1")
	assert.NotEqual(t, c["sign"], d["sign"])
}

func TestSortParams(t *testing.T) {
	got := sortParams(map[string]string{
		"symbol":     "XRPUSDT",
		"marginCoin": "USDT",
		"limit":      "10",
	})
	assert.Equal(t, "limit=10&marginCoin=USDT&symbol=XRPUSDT", got)

	assert.Equal(t, "", sortParams(nil))
}

func TestNewNonce(t *testing.T) {
	a := newNonce()
	b := newNonce()
	require.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestMsTimestamp(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123", msTimestamp(ts))
}
