package models

import "time"

// Quote represents a single tick for an instrument. A failed fetch still
// yields a Quote with the Error field populated; callers never see a panic
// or a raw transport error from the data bridge.
type Quote struct {
	Instrument  string    `json:"instrument"`
	DerivSymbol string    `json:"deriv_symbol,omitempty"`
	Price       *float64  `json:"price"`
	Bid         *float64  `json:"bid,omitempty"`
	Ask         *float64  `json:"ask,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Error       string    `json:"error,omitempty"`
}

// CandleBar is one OHLC bucket of price action.
type CandleBar struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// CandleSeries is a time-ascending sequence of candle bars for one
// instrument/timeframe. Change and ChangePercent compare the last close to
// the first.
type CandleSeries struct {
	Instrument    string      `json:"instrument"`
	DerivSymbol   string      `json:"deriv_symbol,omitempty"`
	Timeframe     string      `json:"timeframe"`
	Candles       []CandleBar `json:"candles"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"change_percent"`
	Source        string      `json:"source"`
	Error         string      `json:"error,omitempty"`
}

// Closes returns the close prices in series order.
func (s *CandleSeries) Closes() []float64 {
	out := make([]float64, 0, len(s.Candles))
	for _, c := range s.Candles {
		out = append(out, c.Close)
	}
	return out
}

// IndicatorSet holds the computed technical indicators. SMA50 is nil when
// fewer than 50 closes are available.
type IndicatorSet struct {
	SMA20 float64  `json:"sma20"`
	SMA50 *float64 `json:"sma50"`
	RSI14 float64  `json:"rsi14"`
}

// TechnicalSnapshot is the analytics engine's view of one instrument. A
// degraded snapshot (fewer than 20 closes) carries nil Indicators and an
// explanatory Summary.
type TechnicalSnapshot struct {
	Instrument   string        `json:"instrument"`
	Timeframe    string        `json:"timeframe"`
	CurrentPrice float64       `json:"current_price,omitempty"`
	Trend        string        `json:"trend,omitempty"`
	Volatility   string        `json:"volatility,omitempty"`
	Support      float64       `json:"support,omitempty"`
	Resistance   float64       `json:"resistance,omitempty"`
	Indicators   *IndicatorSet `json:"indicators"`
	Summary      string        `json:"summary"`
}

// Degraded reports whether the snapshot was built from insufficient history.
func (t *TechnicalSnapshot) Degraded() bool { return t.Indicators == nil }
