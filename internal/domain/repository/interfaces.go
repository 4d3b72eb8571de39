package repository

import (
	"context"

	"TradeIQ/internal/domain/models"
)

// MarketData is the synchronous façade over the streaming quote source.
// Both calls return a structured result whose Error field is set on
// failure; they never panic and never leak transport errors.
type MarketData interface {
	FetchQuote(ctx context.Context, instrument string) models.Quote
	FetchHistory(ctx context.Context, instrument string, tf Timeframe, count int) models.CandleSeries
}

// NewsProvider is one pluggable news backend (keyword search or category
// feed). A provider returns its articles newest-capable but unordered; the
// aggregator owns dedup and sorting.
type NewsProvider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.NewsArticle, error)
}

// SentimentEstimator derives a sentiment label and score for an instrument.
type SentimentEstimator interface {
	Estimate(ctx context.Context, instrument string) models.SentimentEstimate
}

// Completer is the narrow text-completion contract to the language model.
// Callers must treat the returned text as untrusted and parse defensively.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64, maxTokens int) (string, error)
}

// SocialPublisher posts finished commentary to an external network.
type SocialPublisher interface {
	Publish(ctx context.Context, text string) (uri, url string, err error)
}

// EventPublisher fans detected volatility events out to interested
// consumers. Delivery is best effort.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.VolatilityEvent) error
	Close() error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordPipelineRun(status string)
	RecordStageDuration(stage string, seconds float64)
	RecordStageError(stage string)
	RecordEventDetected(instrument, magnitude string)
	RecordPostPublished(platform string)
	RecordLastPrice(instrument string, price float64)
}
