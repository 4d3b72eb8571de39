package usecase

import (
	"context"
	"math"
	"time"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/pkg/config"
	"TradeIQ/pkg/logger"
)

// Thresholds used by the manual override path. Manual events use a fixed
// magnitude boundary, while scan mode scales per-instrument; the two rules
// are intentionally distinct.
const (
	manualDefaultChangePct = 5.0
	manualHighMagnitudePct = 3.0

	// Sentiment score to simulated percentage change mapping. Stands in
	// for a rolling-window comparison against stored history.
	sentimentChangeFactor = 2.5
)

const defaultManualInstrument = "BTC/USD"

// Monitor scans instruments for significant price movements and emits the
// single most significant volatility event per run.
type Monitor struct {
	market    repository.MarketData
	sentiment repository.SentimentEstimator
	metrics   repository.Metrics
	cfg       config.MonitorConfig
	logger    *logger.Logger
	now       func() time.Time
}

func NewMonitor(market repository.MarketData, sentiment repository.SentimentEstimator, metrics repository.Metrics, cfg config.MonitorConfig, log *logger.Logger) *Monitor {
	return &Monitor{
		market:    market,
		sentiment: sentiment,
		metrics:   metrics,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
}

// Detect returns the most significant volatility event, or nil when nothing
// crossed its threshold. A non-nil custom payload bypasses the scan
// entirely and constructs the event from the caller's fields.
func (m *Monitor) Detect(ctx context.Context, instruments []string, custom *models.CustomEventRequest) (*models.VolatilityEvent, error) {
	if custom != nil {
		event := m.manualEvent(custom)
		m.metrics.RecordEventDetected(event.Instrument, event.Magnitude)
		return event, nil
	}

	if len(instruments) == 0 {
		instruments = m.cfg.Instruments
	}

	var best *models.VolatilityEvent
	for _, inst := range instruments {
		event := m.scanInstrument(ctx, inst)
		if event == nil {
			continue
		}
		if best == nil || math.Abs(event.PriceChangePct) > math.Abs(best.PriceChangePct) {
			best = event
		}
	}

	if best != nil {
		m.metrics.RecordEventDetected(best.Instrument, best.Magnitude)
	}
	return best, nil
}

// Threshold returns the scan-mode detection threshold (%) for an instrument.
func (m *Monitor) Threshold(instrument string) float64 {
	if t, ok := m.cfg.Thresholds[instrument]; ok {
		return t
	}
	return m.cfg.DefaultThreshold
}

func (m *Monitor) manualEvent(custom *models.CustomEventRequest) *models.VolatilityEvent {
	instrument := custom.Instrument
	if instrument == "" {
		instrument = defaultManualInstrument
	}
	changePct := manualDefaultChangePct
	if custom.ChangePct != nil {
		changePct = *custom.ChangePct
	}
	magnitude := models.MagnitudeMedium
	if math.Abs(changePct) >= manualHighMagnitudePct {
		magnitude = models.MagnitudeHigh
	}

	raw := map[string]any{"instrument": instrument, "manual": true}
	if custom.Price != nil {
		raw["price"] = *custom.Price
	}
	if custom.ChangePct != nil {
		raw["change_pct"] = *custom.ChangePct
	}

	event := models.NewVolatilityEvent(instrument, custom.Price, changePct, magnitude, raw, m.now())
	return &event
}

// scanInstrument fetches a quote and derives a simulated change from the
// sentiment score. Fetch failures are logged and skipped so one bad
// instrument never aborts the scan.
func (m *Monitor) scanInstrument(ctx context.Context, instrument string) *models.VolatilityEvent {
	quote := m.market.FetchQuote(ctx, instrument)
	if quote.Error != "" || quote.Price == nil {
		m.logger.Warn("monitor scan skipped instrument",
			logger.String("instrument", instrument),
			logger.String("error", quote.Error))
		return nil
	}
	m.metrics.RecordLastPrice(instrument, *quote.Price)

	estimate := m.sentiment.Estimate(ctx, instrument)
	change := estimate.Score * sentimentChangeFactor

	// Threshold and magnitude compare the raw change; only the stored
	// event value is rounded.
	threshold := m.Threshold(instrument)
	if math.Abs(change) < threshold {
		return nil
	}

	magnitude := models.MagnitudeMedium
	if math.Abs(change) >= threshold*2 {
		magnitude = models.MagnitudeHigh
	}
	change = math.Round(change*100) / 100

	raw := map[string]any{
		"instrument": quote.Instrument,
		"symbol":     quote.DerivSymbol,
		"price":      *quote.Price,
		"source":     quote.Source,
		"sentiment":  estimate.Sentiment,
		"score":      estimate.Score,
	}

	event := models.NewVolatilityEvent(instrument, quote.Price, change, magnitude, raw, m.now())
	return &event
}
