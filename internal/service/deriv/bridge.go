package deriv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/pkg/config"
	"TradeIQ/pkg/logger"
)

const sourceName = "deriv"

const (
	minHistoryCount = 10
	maxHistoryCount = 500
)

// Bridge turns the streaming Deriv websocket API into synchronous quote and
// history calls. Every fetch opens its own short-lived session on a bounded
// worker pool and returns a structured result; transport failures land in
// the result's Error field, never as a panic or a leaked error type.
type Bridge struct {
	cfg    config.DerivConfig
	pool   *Pool
	dialer *websocket.Dialer
	logger *logger.Logger
	now    func() time.Time
}

func NewBridge(cfg config.DerivConfig, log *logger.Logger) *Bridge {
	return &Bridge{
		cfg:    cfg,
		pool:   NewPool(cfg.Workers),
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		logger: log,
		now:    time.Now,
	}
}

// ResolveSymbol maps a user-facing instrument name to a Deriv API symbol.
// Lookup is exact first, then case-insensitive; unmapped names pass through
// unchanged.
func (b *Bridge) ResolveSymbol(instrument string) string {
	if sym, ok := b.cfg.Aliases[instrument]; ok {
		return sym
	}
	for name, sym := range b.cfg.Aliases {
		if strings.EqualFold(name, instrument) {
			return sym
		}
	}
	return instrument
}

// FetchQuote subscribes to ticks for the instrument and returns the first
// tick received, bounded by the configured quote timeout.
func (b *Bridge) FetchQuote(ctx context.Context, instrument string) models.Quote {
	q := models.Quote{
		Instrument: instrument,
		Source:     sourceName,
		Timestamp:  b.now().UTC(),
	}
	q.DerivSymbol = b.ResolveSymbol(instrument)

	ctx, cancel := context.WithTimeout(ctx, b.cfg.QuoteTimeout)
	defer cancel()

	if err := b.pool.Acquire(ctx); err != nil {
		q.Error = fmt.Sprintf("quote fetch for %s: %v", instrument, err)
		return q
	}
	defer b.pool.Release()

	msg, err := b.roundTrip(ctx, map[string]interface{}{
		"ticks":     q.DerivSymbol,
		"subscribe": 1,
	}, "tick")
	if err != nil {
		b.logger.Warn("deriv quote fetch failed",
			logger.String("instrument", instrument),
			logger.String("symbol", q.DerivSymbol),
			logger.Error(err))
		q.Error = err.Error()
		return q
	}

	q.Price = msg.Tick.Quote
	q.Bid = msg.Tick.Bid
	q.Ask = msg.Tick.Ask
	if msg.Tick.Epoch > 0 {
		q.Timestamp = time.Unix(msg.Tick.Epoch, 0).UTC()
	}
	if q.Price == nil {
		q.Error = fmt.Sprintf("no tick price for %s", instrument)
	}
	return q
}

// FetchHistory requests candle history. The bar count is clamped to
// [10, 500] and the timeframe is normalized before the request goes out.
func (b *Bridge) FetchHistory(ctx context.Context, instrument string, tf repository.Timeframe, count int) models.CandleSeries {
	tf = repository.NormalizeTimeframe(string(tf))
	s := models.CandleSeries{
		Instrument: instrument,
		Timeframe:  string(tf),
		Source:     sourceName,
	}
	s.DerivSymbol = b.ResolveSymbol(instrument)

	if count < minHistoryCount {
		count = minHistoryCount
	}
	if count > maxHistoryCount {
		count = maxHistoryCount
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.HistoryTimeout)
	defer cancel()

	if err := b.pool.Acquire(ctx); err != nil {
		s.Error = fmt.Sprintf("history fetch for %s: %v", instrument, err)
		return s
	}
	defer b.pool.Release()

	msg, err := b.roundTrip(ctx, map[string]interface{}{
		"ticks_history": s.DerivSymbol,
		"end":           "latest",
		"count":         count,
		"style":         "candles",
		"granularity":   repository.GranularitySeconds(tf),
	}, "candles")
	if err != nil {
		b.logger.Warn("deriv history fetch failed",
			logger.String("instrument", instrument),
			logger.String("symbol", s.DerivSymbol),
			logger.Error(err))
		s.Error = err.Error()
		return s
	}

	for _, c := range msg.Candles {
		if c.Open == nil || c.High == nil || c.Low == nil || c.Close == nil {
			continue
		}
		s.Candles = append(s.Candles, models.CandleBar{
			Time:  time.Unix(c.Epoch, 0).UTC(),
			Open:  *c.Open,
			High:  *c.High,
			Low:   *c.Low,
			Close: *c.Close,
		})
	}
	if len(s.Candles) == 0 {
		s.Error = fmt.Sprintf("no candles returned for %s", instrument)
		return s
	}

	// The API sends candles oldest-first; don't trust it.
	sort.SliceStable(s.Candles, func(i, j int) bool {
		return s.Candles[i].Time.Before(s.Candles[j].Time)
	})

	first := s.Candles[0].Close
	last := s.Candles[len(s.Candles)-1].Close
	s.Change = last - first
	if first != 0 {
		s.ChangePercent = (last - first) / first * 100
	}
	return s
}

type apiMessage struct {
	MsgType string `json:"msg_type"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Tick struct {
		Symbol string   `json:"symbol"`
		Quote  *float64 `json:"quote"`
		Bid    *float64 `json:"bid"`
		Ask    *float64 `json:"ask"`
		Epoch  int64    `json:"epoch"`
	} `json:"tick"`
	Candles []struct {
		Epoch int64    `json:"epoch"`
		Open  *float64 `json:"open"`
		High  *float64 `json:"high"`
		Low   *float64 `json:"low"`
		Close *float64 `json:"close"`
	} `json:"candles"`
}

// roundTrip opens a fresh websocket session, sends one request, and reads
// frames until the wanted msg_type (or an API error) arrives. The context
// deadline is mirrored onto the connection so a timed out read closes the
// socket instead of blocking a pool slot.
func (b *Bridge) roundTrip(ctx context.Context, request map[string]interface{}, wantType string) (*apiMessage, error) {
	endpoint := fmt.Sprintf("%s?app_id=%s", b.cfg.WebSocketURL, b.cfg.AppID)
	conn, _, err := b.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial deriv: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteJSON(request); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		var msg apiMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if msg.Error != nil {
			return nil, fmt.Errorf("deriv api error %s: %s", msg.Error.Code, msg.Error.Message)
		}
		if msg.MsgType == wantType {
			return &msg, nil
		}
	}
}
