package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeIQ/internal/domain/models"
	"TradeIQ/pkg/logger"
)

func newTestMonitor(market *fakeMarket, sentiment *fakeSentiment) *Monitor {
	m := NewMonitor(market, sentiment, nopMetrics{}, testMonitorConfig(), logger.Nop())
	m.now = fixedClock()
	return m
}

func TestDetectManualSpikeHighMagnitude(t *testing.T) {
	m := newTestMonitor(&fakeMarket{}, &fakeSentiment{})

	event, err := m.Detect(context.Background(), nil, &models.CustomEventRequest{
		Instrument: "BTC/USD",
		Price:      floatPtr(97250.0),
		ChangePct:  floatPtr(5.2),
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.DirectionSpike, event.Direction)
	assert.Equal(t, models.MagnitudeHigh, event.Magnitude)
	assert.Equal(t, 5.2, event.PriceChangePct)
	assert.Equal(t, 97250.0, *event.CurrentPrice)
}

func TestDetectManualDropMediumMagnitude(t *testing.T) {
	m := newTestMonitor(&fakeMarket{}, &fakeSentiment{})

	event, err := m.Detect(context.Background(), nil, &models.CustomEventRequest{
		Instrument: "EUR/USD",
		ChangePct:  floatPtr(-1.0),
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.DirectionDrop, event.Direction)
	assert.Equal(t, models.MagnitudeMedium, event.Magnitude)
}

func TestDetectManualDefaultsChangeToFivePercent(t *testing.T) {
	m := newTestMonitor(&fakeMarket{}, &fakeSentiment{})

	event, err := m.Detect(context.Background(), nil, &models.CustomEventRequest{Instrument: "GOLD"})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, 5.0, event.PriceChangePct)
	assert.Equal(t, models.DirectionSpike, event.Direction)
	assert.Equal(t, models.MagnitudeHigh, event.Magnitude)
}

func TestDetectManualDefaultsInstrument(t *testing.T) {
	m := newTestMonitor(&fakeMarket{}, &fakeSentiment{})

	event, err := m.Detect(context.Background(), nil, &models.CustomEventRequest{})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "BTC/USD", event.Instrument)
}

func TestDetectScanPicksMaxAbsoluteChange(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"EUR/USD": {Instrument: "EUR/USD", Price: floatPtr(1.0850)},
		"BTC/USD": {Instrument: "BTC/USD", Price: floatPtr(97000.0)},
	}}
	// EUR/USD: -0.8*2.5 = -2.0%, threshold 0.5 -> qualifies, |change| 2.0
	// BTC/USD: 0.6*2.5 = 1.5%, threshold 3.0 -> does not qualify
	sentiment := &fakeSentiment{scores: map[string]float64{
		"EUR/USD": -0.8,
		"BTC/USD": 0.6,
	}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"EUR/USD", "BTC/USD"}, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "EUR/USD", event.Instrument)
	assert.Equal(t, -2.0, event.PriceChangePct)
	assert.Equal(t, models.DirectionDrop, event.Direction)
	// |−2.0| >= 2×0.5 -> high under the scan-mode rule.
	assert.Equal(t, models.MagnitudeHigh, event.Magnitude)
}

func TestDetectScanMagnitudeScalesWithThreshold(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"BTC/USD": {Instrument: "BTC/USD", Price: floatPtr(97000.0)},
	}}
	// 1.6*2.5 = 4.0%, threshold 3.0: qualifies but below 6.0 -> medium.
	sentiment := &fakeSentiment{scores: map[string]float64{"BTC/USD": 1.6}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"BTC/USD"}, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.MagnitudeMedium, event.Magnitude)
}

func TestDetectScanNoQualifyingEvent(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"EUR/USD": {Instrument: "EUR/USD", Price: floatPtr(1.0850)},
	}}
	sentiment := &fakeSentiment{scores: map[string]float64{"EUR/USD": 0.1}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"EUR/USD"}, nil)
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestDetectScanComparesUnroundedChange(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"EUR/USD": {Instrument: "EUR/USD", Price: floatPtr(1.0850)},
	}}
	// 0.1998 * 2.5 = 0.4995: under the 0.5 threshold even though it
	// rounds to 0.50.
	sentiment := &fakeSentiment{scores: map[string]float64{"EUR/USD": 0.1998}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"EUR/USD"}, nil)
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestDetectScanRoundsStoredChange(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"EUR/USD": {Instrument: "EUR/USD", Price: floatPtr(1.0850)},
	}}
	// 0.2041 * 2.5 = 0.51025: qualifies, stored as 0.51.
	sentiment := &fakeSentiment{scores: map[string]float64{"EUR/USD": 0.2041}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"EUR/USD"}, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, 0.51, event.PriceChangePct)
	assert.Equal(t, models.MagnitudeMedium, event.Magnitude)
}

func TestDetectScanMagnitudeComparesUnroundedChange(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"EUR/USD": {Instrument: "EUR/USD", Price: floatPtr(1.0850)},
	}}
	// 0.3998 * 2.5 = 0.9995: rounds to 1.00 but stays under the 1.0
	// high-magnitude cut.
	sentiment := &fakeSentiment{scores: map[string]float64{"EUR/USD": 0.3998}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"EUR/USD"}, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.MagnitudeMedium, event.Magnitude)
	assert.Equal(t, 1.0, event.PriceChangePct)
}

func TestDetectScanSkipsFailedFetches(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"GBP/USD": {Instrument: "GBP/USD", Price: floatPtr(1.2700)},
	}}
	sentiment := &fakeSentiment{scores: map[string]float64{"GBP/USD": 0.5}}
	m := newTestMonitor(market, sentiment)

	// "BROKEN" yields a quote error and must not abort the scan.
	event, err := m.Detect(context.Background(), []string{"BROKEN", "GBP/USD"}, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "GBP/USD", event.Instrument)
}

func TestDetectScanFirstSeenWinsTies(t *testing.T) {
	market := &fakeMarket{quotes: map[string]models.Quote{
		"EUR/USD": {Instrument: "EUR/USD", Price: floatPtr(1.0850)},
		"GBP/USD": {Instrument: "GBP/USD", Price: floatPtr(1.2700)},
	}}
	sentiment := &fakeSentiment{scores: map[string]float64{
		"EUR/USD": 0.4,
		"GBP/USD": -0.4,
	}}
	m := newTestMonitor(market, sentiment)

	event, err := m.Detect(context.Background(), []string{"EUR/USD", "GBP/USD"}, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "EUR/USD", event.Instrument)
}

func TestThresholdLookup(t *testing.T) {
	m := newTestMonitor(&fakeMarket{}, &fakeSentiment{})

	assert.Equal(t, 3.0, m.Threshold("BTC/USD"))
	assert.Equal(t, 4.0, m.Threshold("ETH/USD"))
	assert.Equal(t, 2.0, m.Threshold("Volatility 75"))
	assert.Equal(t, 0.5, m.Threshold("EUR/USD"))
}
