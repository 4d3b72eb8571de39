package usecase

import (
	"context"
	"time"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/news"
	"TradeIQ/internal/service/ratelimit"
	"TradeIQ/pkg/config"
	"TradeIQ/pkg/logger"
)

// fakeMarket serves canned quotes per instrument.
type fakeMarket struct {
	quotes map[string]models.Quote
}

func (f *fakeMarket) FetchQuote(ctx context.Context, instrument string) models.Quote {
	if q, ok := f.quotes[instrument]; ok {
		return q
	}
	return models.Quote{Instrument: instrument, Error: "unknown instrument"}
}

func (f *fakeMarket) FetchHistory(ctx context.Context, instrument string, tf repository.Timeframe, count int) models.CandleSeries {
	return models.CandleSeries{Instrument: instrument, Error: "not implemented"}
}

// fakeSentiment returns a fixed score per instrument.
type fakeSentiment struct {
	scores map[string]float64
}

func (f *fakeSentiment) Estimate(ctx context.Context, instrument string) models.SentimentEstimate {
	score := f.scores[instrument]
	sentiment := models.SentimentNeutral
	if score > 0 {
		sentiment = models.SentimentBullish
	} else if score < 0 {
		sentiment = models.SentimentBearish
	}
	return models.SentimentEstimate{
		Instrument: instrument,
		Sentiment:  sentiment,
		Score:      score,
		Sources:    []string{},
	}
}

// fakeCompleter returns a fixed response or error.
type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64, maxTokens int) (string, error) {
	f.calls++
	return f.response, f.err
}

// panicCompleter simulates an unexpected stage crash.
type panicCompleter struct{}

func (panicCompleter) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64, maxTokens int) (string, error) {
	panic("completer crashed")
}

// fakePublisher records publish calls.
type fakePublisher struct {
	uri, url string
	err      error
	posted   []string
}

func (f *fakePublisher) Publish(ctx context.Context, text string) (string, string, error) {
	f.posted = append(f.posted, text)
	return f.uri, f.url, f.err
}

// nopMetrics satisfies repository.Metrics for tests.
type nopMetrics struct{}

func (nopMetrics) RecordPipelineRun(status string)                   {}
func (nopMetrics) RecordStageDuration(stage string, seconds float64) {}
func (nopMetrics) RecordStageError(stage string)                     {}
func (nopMetrics) RecordEventDetected(instrument, magnitude string)  {}
func (nopMetrics) RecordPostPublished(platform string)               {}
func (nopMetrics) RecordLastPrice(instrument string, price float64)  {}

func testMonitorConfig() config.MonitorConfig {
	return config.MonitorConfig{
		Instruments:      config.DefaultInstruments,
		Thresholds:       config.DefaultThresholds,
		DefaultThreshold: 0.5,
	}
}

func emptyAggregator() *news.Aggregator {
	return news.NewAggregator(nil, ratelimit.New(), 100, 100, logger.Nop())
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func floatPtr(v float64) *float64 { return &v }
