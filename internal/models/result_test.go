package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultEnvelope(t *testing.T) {
	res, err := ParseResult([]byte(`{"code":0,"data":{"orderId":"1"},"msg":"Success"}`))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Success", res.Msg)
}

func TestParseResultError(t *testing.T) {
	res, err := ParseResult([]byte(`{"code":10007,"data":null,"msg":"Signature Error"}`))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, 10007, res.Code)
}

// часть публичных эндпоинтов отвечает голым списком без конверта
func TestParseResultBareList(t *testing.T) {
	res, err := ParseResult([]byte(`[{"symbol":"XRPUSDT","lastPrice":"0.75"}]`))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Success", res.Msg)
	assert.JSONEq(t, `[{"symbol":"XRPUSDT","lastPrice":"0.75"}]`, string(res.Data))
}

func TestParseResultGarbage(t *testing.T) {
	_, err := ParseResult([]byte(`{broken`))
	assert.Error(t, err)
}

// страница ошибки прокси не должна превращаться в {code:0,"Success"}
func TestParseResultNonJSONBody(t *testing.T) {
	_, err := ParseResult([]byte(`<html><body>502 Bad Gateway</body></html>`))
	assert.Error(t, err)

	_, err = ParseResult([]byte(``))
	assert.Error(t, err)

	_, err = ParseResult([]byte("   \n"))
	assert.Error(t, err)
}

func TestResultEmptyData(t *testing.T) {
	for _, data := range []string{``, `null`, `[]`, `{}`, ` [] `} {
		res := Result{Code: 0, Data: []byte(data)}
		assert.True(t, res.EmptyData(), "data=%q", data)
	}

	res := Result{Code: 0, Data: []byte(`[{"positionId":"1"}]`)}
	assert.False(t, res.EmptyData())
}

func TestDecodeData(t *testing.T) {
	res, err := ParseResult([]byte(`{"code":0,"data":{"orderId":"77"},"msg":"Success"}`))
	require.NoError(t, err)

	var ack struct {
		OrderID string `json:"orderId"`
	}
	require.NoError(t, res.DecodeData(&ack))
	assert.Equal(t, "77", ack.OrderID)

	assert.Error(t, Failure(2, "x").DecodeData(&ack))
}

func TestSideFromOrder(t *testing.T) {
	assert.Equal(t, SideLong, SideFromOrder("BUY"))
	assert.Equal(t, SideShort, SideFromOrder("SELL"))
}
