package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/llm"
	"TradeIQ/internal/service/news"
	"TradeIQ/pkg/logger"
)

const analystNewsLimit = 5

// Analyst turns a volatility event plus news and sentiment context into a
// structured causal report. Model failures degrade to a deterministic
// report built from the event's own fields; Analyze never returns an error.
type Analyst struct {
	aggregator *news.Aggregator
	sentiment  repository.SentimentEstimator
	completer  repository.Completer
	logger     *logger.Logger
	now        func() time.Time
}

func NewAnalyst(aggregator *news.Aggregator, sentiment repository.SentimentEstimator, completer repository.Completer, log *logger.Logger) *Analyst {
	return &Analyst{
		aggregator: aggregator,
		sentiment:  sentiment,
		completer:  completer,
		logger:     log,
		now:        time.Now,
	}
}

type analystPayload struct {
	EventSummary   string   `json:"event_summary"`
	RootCauses     []string `json:"root_causes"`
	KeyDataPoints  []string `json:"key_data_points"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentiment_score"`
}

func (a *Analyst) Analyze(ctx context.Context, event models.VolatilityEvent) models.AnalysisReport {
	articles := a.aggregator.Search(ctx, event.Instrument, analystNewsLimit)
	estimate := a.sentiment.Estimate(ctx, event.Instrument)

	raw, err := a.completer.Complete(ctx, analystSystemPrompt, a.buildPrompt(event, estimate, articles), 0.4, 600)
	if err != nil {
		a.logger.Warn("analyst completion failed",
			logger.String("instrument", event.Instrument),
			logger.Error(err))
		return a.fallbackReport(event, estimate, articles)
	}

	var payload analystPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		a.logger.Warn("analyst payload unparsable",
			logger.String("instrument", event.Instrument),
			logger.Error(err))
		return a.fallbackReport(event, estimate, articles)
	}

	report := models.AnalysisReport{
		Instrument:    event.Instrument,
		EventSummary:  payload.EventSummary,
		RootCauses:    payload.RootCauses,
		NewsSources:   newsSources(articles, analystNewsLimit),
		Sentiment:     payload.Sentiment,
		KeyDataPoints: payload.KeyDataPoints,
		GeneratedAt:   a.now(),
	}
	if report.EventSummary == "" {
		report.EventSummary = fmt.Sprintf("%s moved %+.2f%%", event.Instrument, event.PriceChangePct)
	}
	if len(report.RootCauses) == 0 {
		report.RootCauses = []string{"Unable to determine specific causes"}
	}
	if report.Sentiment == "" {
		report.Sentiment = estimate.Sentiment
	}
	if payload.SentimentScore != nil {
		report.SentimentScore = *payload.SentimentScore
	} else {
		report.SentimentScore = estimate.Score
	}
	if report.KeyDataPoints == nil {
		report.KeyDataPoints = []string{}
	}
	return report
}

func (a *Analyst) buildPrompt(event models.VolatilityEvent, estimate models.SentimentEstimate, articles []models.NewsArticle) string {
	var newsContext strings.Builder
	for _, art := range articles {
		desc := art.Description
		if len(desc) > 120 {
			desc = desc[:120]
		}
		fmt.Fprintf(&newsContext, "- [%s] %s: %s\n", art.Source, art.Title, desc)
	}
	if newsContext.Len() == 0 {
		newsContext.WriteString("No recent news found.")
	}

	sentimentJSON, _ := json.Marshal(estimate)

	price := "unknown"
	if event.CurrentPrice != nil {
		price = fmt.Sprintf("%v", *event.CurrentPrice)
	}

	return fmt.Sprintf(`Volatility Event detected:
- Instrument: %s
- Current Price: %s
- Change: %+.2f%%
- Direction: %s
- Magnitude: %s

Sentiment Data: %s

Recent News:
%s

Analyze the root causes of this volatility event. Return JSON only.`,
		event.Instrument, price, event.PriceChangePct, event.Direction, event.Magnitude,
		sentimentJSON, newsContext.String())
}

// fallbackReport is the deterministic report produced when the model call
// or parse fails. Root causes and news sources are always non-nil.
func (a *Analyst) fallbackReport(event models.VolatilityEvent, estimate models.SentimentEstimate, articles []models.NewsArticle) models.AnalysisReport {
	price := "unknown"
	if event.CurrentPrice != nil {
		price = fmt.Sprintf("%v", *event.CurrentPrice)
	}
	return models.AnalysisReport{
		Instrument: event.Instrument,
		EventSummary: fmt.Sprintf("%s experienced a %s %s of %+.2f%%",
			event.Instrument, event.Magnitude, event.Direction, event.PriceChangePct),
		RootCauses:     []string{"Analysis unavailable"},
		NewsSources:    newsSources(articles, 3),
		Sentiment:      estimate.Sentiment,
		SentimentScore: estimate.Score,
		KeyDataPoints:  []string{fmt.Sprintf("Price: %s", price)},
		GeneratedAt:    a.now(),
	}
}

func newsSources(articles []models.NewsArticle, limit int) []models.NewsSource {
	sources := make([]models.NewsSource, 0, limit)
	for _, art := range articles {
		if len(sources) >= limit {
			break
		}
		sources = append(sources, models.NewsSource{
			Title:  art.Title,
			URL:    art.URL,
			Source: art.Source,
		})
	}
	return sources
}
