package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitunix_bot/internal/models"
)

type tpslBody struct {
	Symbol     string `json:"symbol"`
	PositionID string `json:"positionId"`
	TPPrice    string `json:"tpPrice"`
	SLPrice    string `json:"slPrice"`
	TPQty      string `json:"tpQty"`
	SLQty      string `json:"slQty"`
	TPStopType string `json:"tpStopType"`
	SLStopType string `json:"slStopType"`
}

func tpslHandler(t *testing.T, captured *[]tpslBody) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/futures/position/get_positions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"data":[
			{"positionId":"42","symbol":"XRPUSDT","qty":"7.5","side":"BUY","avgOpenPrice":"0.70","leverage":2,"markPrice":"0.75","margin":"2.6","unrealizedPNL":"0.3"}
		],"msg":"Success"}`))
	})
	mux.HandleFunc("/api/v1/futures/account", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"data":{"totalMargin":"25"},"msg":"Success"}`))
	})
	mux.HandleFunc("/api/v1/futures/tpsl/place_order", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var b tpslBody
		require.NoError(t, sonic.Unmarshal(raw, &b))
		*captured = append(*captured, b)
		_, _ = w.Write([]byte(`{"code":0,"data":null,"msg":"Success"}`))
	})
	return mux
}

// количество для TP всегда берётся из живой позиции, не от вызывающего
func TestSetTakeProfitFullUsesLiveQty(t *testing.T) {
	var captured []tpslBody
	c, _ := newTestClient(t, tpslHandler(t, &captured))

	res, err := c.SetTakeProfitFull(context.Background(), "XRPUSDT", "42", "0.77")
	require.NoError(t, err)
	assert.True(t, res.OK())

	require.Len(t, captured, 1)
	assert.Equal(t, "XRPUSDT", captured[0].Symbol)
	assert.Equal(t, "42", captured[0].PositionID)
	assert.Equal(t, "0.77", captured[0].TPPrice)
	assert.Equal(t, "7.5", captured[0].TPQty)
	assert.Equal(t, "LAST_PRICE", captured[0].TPStopType)
	assert.Empty(t, captured[0].SLPrice)
}

func TestSetStopLossFullUsesLiveQty(t *testing.T) {
	var captured []tpslBody
	c, _ := newTestClient(t, tpslHandler(t, &captured))

	res, err := c.SetStopLossFull(context.Background(), "XRPUSDT", "42", "0.66")
	require.NoError(t, err)
	assert.True(t, res.OK())

	require.Len(t, captured, 1)
	assert.Equal(t, "0.66", captured[0].SLPrice)
	assert.Equal(t, "7.5", captured[0].SLQty)
	assert.Empty(t, captured[0].TPPrice)
}

func TestSetTakeProfitFullPositionGone(t *testing.T) {
	var captured []tpslBody
	c, _ := newTestClient(t, tpslHandler(t, &captured))

	_, err := c.SetTakeProfitFull(context.Background(), "XRPUSDT", "missing", "0.77")
	assert.ErrorIs(t, err, models.ErrPositionNotFound)
	assert.Empty(t, captured)
}

func TestPlacePositionTPSLValidation(t *testing.T) {
	c, _ := newTestClient(t, http.NewServeMux())

	_, err := c.PlacePositionTPSL(context.Background(), models.TPSLRequest{Symbol: "XRPUSDT"})
	assert.Error(t, err)

	_, err = c.PlaceTPSLWithQty(context.Background(), models.TPSLRequest{Symbol: "XRPUSDT", TPPrice: "1"})
	assert.Error(t, err) // цена есть, количества нет
}
