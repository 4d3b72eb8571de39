package news

import (
	"context"
	"fmt"
	"strings"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/llm"
	"TradeIQ/pkg/logger"
)

const marketAnalystPrompt = "You are a market analyst. " + ComplianceRules

// ComplianceRules is the preamble appended to every agent system prompt.
const ComplianceRules = `
- No price predictions or buy/sell signals.
- Post-generation filter for prediction language.
- Auto-appended disclaimer: "📊 Analysis by TradeIQ | Not financial advice"
- Brand-safe language (no "guaranteed", "moon", "easy money", etc.)
`

// Estimator derives a sentiment label and score for an instrument from
// recent headlines via the language model. Every failure path degrades to a
// neutral estimate; callers never see an error.
type Estimator struct {
	aggregator *Aggregator
	completer  repository.Completer
	logger     *logger.Logger
}

func NewEstimator(aggregator *Aggregator, completer repository.Completer, log *logger.Logger) *Estimator {
	return &Estimator{aggregator: aggregator, completer: completer, logger: log}
}

type sentimentPayload struct {
	Sentiment  string   `json:"sentiment"`
	Score      float64  `json:"score"`
	KeyPoints  []string `json:"key_points"`
	Confidence float64  `json:"confidence"`
}

func (e *Estimator) Estimate(ctx context.Context, instrument string) models.SentimentEstimate {
	articles := e.aggregator.Search(ctx, instrument, 10)
	if len(articles) == 0 {
		return models.NeutralSentiment(instrument, nil)
	}

	top := articles
	if len(top) > 5 {
		top = top[:5]
	}
	sources := make([]string, 0, len(top))
	var summary strings.Builder
	for _, a := range top {
		sources = append(sources, a.Source)
		desc := a.Description
		if len(desc) > 100 {
			desc = desc[:100]
		}
		fmt.Fprintf(&summary, "- %s: %s\n", a.Title, desc)
	}

	prompt := fmt.Sprintf(`Analyze the sentiment of news articles about %s.

News Articles:
%s
Return a JSON object with:
{
  "sentiment": "bullish" | "bearish" | "neutral",
  "score": -1.0 to 1.0 (negative=bearish, positive=bullish),
  "key_points": ["point1", "point2", "point3"],
  "confidence": 0.0 to 1.0
}`, instrument, summary.String())

	raw, err := e.completer.Complete(ctx, marketAnalystPrompt, prompt, 0.3, 300)
	if err != nil {
		e.logger.Warn("sentiment completion failed",
			logger.String("instrument", instrument),
			logger.Error(err))
		return models.NeutralSentiment(instrument, sources)
	}

	var payload sentimentPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		e.logger.Warn("sentiment payload unparsable",
			logger.String("instrument", instrument),
			logger.Error(err))
		return models.NeutralSentiment(instrument, sources)
	}
	if !validSentiment(payload.Sentiment) {
		return models.NeutralSentiment(instrument, sources)
	}

	return models.SentimentEstimate{
		Instrument: instrument,
		Sentiment:  payload.Sentiment,
		Score:      clampScore(payload.Score),
		KeyPoints:  payload.KeyPoints,
		Confidence: payload.Confidence,
		Sources:    sources,
	}
}

func validSentiment(s string) bool {
	switch s {
	case models.SentimentBullish, models.SentimentBearish, models.SentimentNeutral:
		return true
	}
	return false
}

func clampScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	if score < -1.0 {
		return -1.0
	}
	return score
}
