package deriv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeIQ/internal/domain/repository"
	"TradeIQ/pkg/config"
	"TradeIQ/pkg/logger"
)

var upgrader = websocket.Upgrader{}

// fakeDeriv serves the given handler per websocket connection and returns a
// bridge pointed at it.
func fakeDeriv(t *testing.T, handle func(conn *websocket.Conn, req map[string]interface{})) *Bridge {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var req map[string]interface{}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		handle(conn, req)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DerivConfig{
		AppID:          "1089",
		WebSocketURL:   "ws" + strings.TrimPrefix(srv.URL, "http"),
		QuoteTimeout:   2 * time.Second,
		HistoryTimeout: 2 * time.Second,
		Workers:        2,
		Aliases:        config.DefaultAliases,
	}
	return NewBridge(cfg, logger.Nop())
}

func TestResolveSymbol(t *testing.T) {
	b := NewBridge(config.DerivConfig{Aliases: config.DefaultAliases}, logger.Nop())

	assert.Equal(t, "frxEURUSD", b.ResolveSymbol("EUR/USD"))
	assert.Equal(t, "frxEURUSD", b.ResolveSymbol("eur/usd"))
	assert.Equal(t, "R_75", b.ResolveSymbol("Volatility 75"))
	// Unmapped names pass through unchanged.
	assert.Equal(t, "frxNZDUSD", b.ResolveSymbol("frxNZDUSD"))
}

func TestFetchQuoteReturnsFirstTick(t *testing.T) {
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		assert.Equal(t, "frxEURUSD", req["ticks"])
		// Non-tick frame first; the bridge must skip it.
		_ = conn.WriteJSON(map[string]interface{}{"msg_type": "authorize"})
		_ = conn.WriteJSON(map[string]interface{}{
			"msg_type": "tick",
			"tick": map[string]interface{}{
				"symbol": "frxEURUSD",
				"quote":  1.0832,
				"bid":    1.0831,
				"ask":    1.0833,
				"epoch":  1700000000,
			},
		})
	})

	q := b.FetchQuote(context.Background(), "EUR/USD")
	require.Empty(t, q.Error)
	require.NotNil(t, q.Price)
	assert.Equal(t, 1.0832, *q.Price)
	assert.Equal(t, "frxEURUSD", q.DerivSymbol)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), q.Timestamp)
}

func TestFetchQuoteAPIErrorLandsInResult(t *testing.T) {
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		_ = conn.WriteJSON(map[string]interface{}{
			"msg_type": "tick",
			"error": map[string]interface{}{
				"code":    "InvalidSymbol",
				"message": "Symbol frxZZZ is invalid.",
			},
		})
	})

	q := b.FetchQuote(context.Background(), "frxZZZ")
	assert.Nil(t, q.Price)
	assert.Contains(t, q.Error, "InvalidSymbol")
}

func TestFetchQuoteTimeoutDoesNotPanic(t *testing.T) {
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		time.Sleep(3 * time.Second)
	})
	b.cfg.QuoteTimeout = 200 * time.Millisecond

	q := b.FetchQuote(context.Background(), "EUR/USD")
	assert.Nil(t, q.Price)
	assert.NotEmpty(t, q.Error)
	// The pool slot must be returned after the timeout.
	assert.Equal(t, 0, b.pool.InFlight())
}

func TestFetchHistoryBuildsSeries(t *testing.T) {
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		assert.Equal(t, "cryBTCUSD", req["ticks_history"])
		assert.Equal(t, "candles", req["style"])
		assert.Equal(t, float64(3600), req["granularity"])
		assert.Equal(t, float64(120), req["count"])

		candles := []map[string]interface{}{
			{"epoch": 1700000000, "open": 95000.0, "high": 95500.0, "low": 94800.0, "close": 95200.0},
			{"epoch": 1700003600, "open": 95200.0, "high": 96100.0, "low": 95100.0, "close": 96000.0},
		}
		_ = conn.WriteJSON(map[string]interface{}{"msg_type": "candles", "candles": candles})
	})

	s := b.FetchHistory(context.Background(), "BTC/USD", repository.TF1h, 120)
	require.Empty(t, s.Error)
	require.Len(t, s.Candles, 2)
	assert.Equal(t, 95200.0, s.Candles[0].Close)
	assert.Equal(t, 800.0, s.Change)
	assert.InDelta(t, 0.8403, s.ChangePercent, 0.001)
}

func TestFetchHistoryOrdersCandlesByTime(t *testing.T) {
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		// Newest-first payload: the series must still come back ascending.
		candles := []map[string]interface{}{
			{"epoch": 1700007200, "open": 96000.0, "high": 96400.0, "low": 95900.0, "close": 96300.0},
			{"epoch": 1700000000, "open": 95000.0, "high": 95500.0, "low": 94800.0, "close": 95200.0},
			{"epoch": 1700003600, "open": 95200.0, "high": 96100.0, "low": 95100.0, "close": 96000.0},
		}
		_ = conn.WriteJSON(map[string]interface{}{"msg_type": "candles", "candles": candles})
	})

	s := b.FetchHistory(context.Background(), "BTC/USD", repository.TF1h, 120)
	require.Empty(t, s.Error)
	require.Len(t, s.Candles, 3)
	for i := 1; i < len(s.Candles); i++ {
		assert.False(t, s.Candles[i].Time.Before(s.Candles[i-1].Time))
	}
	// Change derives from the true first/last closes, not arrival order.
	assert.Equal(t, 96300.0-95200.0, s.Change)
}

func TestFetchHistoryClampsCount(t *testing.T) {
	var gotCount float64
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		gotCount = req["count"].(float64)
		_ = conn.WriteJSON(map[string]interface{}{
			"msg_type": "candles",
			"candles": []map[string]interface{}{
				{"epoch": 1700000000, "open": 1.0, "high": 1.0, "low": 1.0, "close": 1.0},
			},
		})
	})

	_ = b.FetchHistory(context.Background(), "EUR/USD", repository.TF1h, 5)
	assert.Equal(t, float64(10), gotCount)

	_ = b.FetchHistory(context.Background(), "EUR/USD", repository.TF1h, 9000)
	assert.Equal(t, float64(500), gotCount)
}

func TestFetchHistoryEmptyCandlesIsError(t *testing.T) {
	b := fakeDeriv(t, func(conn *websocket.Conn, req map[string]interface{}) {
		_ = conn.WriteJSON(map[string]interface{}{"msg_type": "candles", "candles": []interface{}{}})
	})

	s := b.FetchHistory(context.Background(), "GOLD", repository.TF1h, 50)
	assert.Empty(t, s.Candles)
	assert.Contains(t, s.Error, "no candles")
}
