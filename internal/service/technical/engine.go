package technical

import (
	"fmt"
	"math"

	"TradeIQ/internal/domain/models"
)

// Volatility bucket boundaries on the population stddev of simple returns.
const (
	volLowCeiling    = 0.0025
	volMediumCeiling = 0.0075
)

const minBars = 20

// Trend and volatility labels.
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"

	VolLow    = "low"
	VolMedium = "medium"
	VolHigh   = "high"
)

// Analyze computes the technical snapshot for a candle series. It is a pure
// function of the series: no I/O, no clock. Fewer than 20 closes yields a
// degraded snapshot with nil indicators.
func Analyze(series *models.CandleSeries) models.TechnicalSnapshot {
	if series == nil || len(series.Candles) < minBars {
		summary := "Insufficient candle history for technical analysis."
		if series != nil && series.Error != "" {
			summary = series.Error
		}
		snap := models.TechnicalSnapshot{Summary: summary}
		if series != nil {
			snap.Instrument = series.Instrument
			snap.Timeframe = series.Timeframe
		}
		return snap
	}

	closes := series.Closes()
	price := closes[len(closes)-1]

	sma20, _ := SMA(closes, 20)
	var sma50 *float64
	if v, ok := SMA(closes, 50); ok {
		sma50 = &v
	}
	rsi := RSI14(closes)

	sigma := ReturnStddev(closes, minBars)
	volatility := VolatilityBucket(sigma)
	trend := TrendLabel(price, sma20, sma50)
	support, resistance := SupportResistance(series.Candles, minBars)

	summary := fmt.Sprintf(
		"%s on %s: trend is %s with RSI14 at %.1f. Nearest support/resistance from recent candles: %.4f / %.4f. Observed volatility is %s.",
		series.Instrument, series.Timeframe, trend, rsi, support, resistance, volatility,
	)

	return models.TechnicalSnapshot{
		Instrument:   series.Instrument,
		Timeframe:    series.Timeframe,
		CurrentPrice: price,
		Trend:        trend,
		Volatility:   volatility,
		Support:      support,
		Resistance:   resistance,
		Indicators:   &models.IndicatorSet{SMA20: sma20, SMA50: sma50, RSI14: rsi},
		Summary:      summary,
	}
}

// SMA returns the simple moving average of the last period closes, or false
// when fewer than period closes are available.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// RSI14 computes the 14-period relative strength index. Gains and losses
// are taken over the whole series; the averages are the simple mean of the
// last 14 values, not an exponential smoothing.
func RSI14(closes []float64) float64 {
	const period = 14

	gains := make([]float64, 0, len(closes))
	losses := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gains = append(gains, math.Max(delta, 0))
		losses = append(losses, math.Max(-delta, 0))
	}

	var avgGain, avgLoss float64
	if len(gains) >= period {
		for _, g := range gains[len(gains)-period:] {
			avgGain += g
		}
		for _, l := range losses[len(losses)-period:] {
			avgLoss += l
		}
		avgGain /= period
		avgLoss /= period
	}

	if avgLoss == 0 {
		if avgGain > 0 {
			return 100.0
		}
		return 50.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// ReturnStddev computes the population standard deviation of simple returns
// close[i]/close[i-1]-1 over the last window return values (or fewer when
// the series is shorter).
func ReturnStddev(closes []float64, window int) float64 {
	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, closes[i]/prev-1)
	}
	if len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// VolatilityBucket maps a return stddev to a coarse label.
func VolatilityBucket(sigma float64) string {
	switch {
	case sigma < volLowCeiling:
		return VolLow
	case sigma < volMediumCeiling:
		return VolMedium
	default:
		return VolHigh
	}
}

// TrendLabel derives the trend from the price / SMA ordering. Without an
// SMA50 the trend is always neutral.
func TrendLabel(price, sma20 float64, sma50 *float64) string {
	if sma50 == nil {
		return TrendNeutral
	}
	switch {
	case price > sma20 && sma20 > *sma50:
		return TrendBullish
	case price < sma20 && sma20 < *sma50:
		return TrendBearish
	default:
		return TrendNeutral
	}
}

// SupportResistance returns the min low and max high over the last window
// bars.
func SupportResistance(candles []models.CandleBar, window int) (support, resistance float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	recent := candles
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	support = recent[0].Low
	resistance = recent[0].High
	for _, c := range recent[1:] {
		if c.Low < support {
			support = c.Low
		}
		if c.High > resistance {
			resistance = c.High
		}
	}
	return support, resistance
}
