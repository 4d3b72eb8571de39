package news

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"TradeIQ/internal/domain/models"
	"TradeIQ/pkg/logger"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64, maxTokens int) (string, error) {
	return s.response, s.err
}

func estimatorWith(articles []models.NewsArticle, completer *stubCompleter) *Estimator {
	a := newTestAggregator(&stubProvider{name: "stub", articles: articles})
	return NewEstimator(a, completer, logger.Nop())
}

func TestEstimateNoNewsIsNeutral(t *testing.T) {
	e := estimatorWith(nil, &stubCompleter{})
	got := e.Estimate(context.Background(), "EUR/USD")
	assert.Equal(t, models.SentimentNeutral, got.Sentiment)
	assert.Equal(t, 0.0, got.Score)
	assert.NotNil(t, got.Sources)
	assert.Empty(t, got.Sources)
}

func TestEstimateParsesModelPayload(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "Euro soars", URL: "https://a/1", Source: "Reuters", PublishedAt: "2026-08-30T10:00:00Z"},
	}
	e := estimatorWith(articles, &stubCompleter{
		response: "```json\n{\"sentiment\": \"bullish\", \"score\": 0.7, \"key_points\": [\"strong data\"], \"confidence\": 0.8}\n```",
	})

	got := e.Estimate(context.Background(), "EUR/USD")
	assert.Equal(t, models.SentimentBullish, got.Sentiment)
	assert.Equal(t, 0.7, got.Score)
	assert.Equal(t, []string{"Reuters"}, got.Sources)
}

func TestEstimateModelFailureFallsBackWithSources(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "BTC dips", URL: "https://b/1", Source: "CoinDesk", PublishedAt: "2026-08-30T10:00:00Z"},
	}
	e := estimatorWith(articles, &stubCompleter{err: errors.New("timeout")})

	got := e.Estimate(context.Background(), "BTC/USD")
	assert.Equal(t, models.SentimentNeutral, got.Sentiment)
	assert.Equal(t, []string{"CoinDesk"}, got.Sources)
}

func TestEstimateClampsScore(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "Gold spikes", URL: "https://c/1", Source: "FT", PublishedAt: "2026-08-30T10:00:00Z"},
	}
	e := estimatorWith(articles, &stubCompleter{
		response: `{"sentiment": "bullish", "score": 3.5}`,
	})

	got := e.Estimate(context.Background(), "GOLD")
	assert.Equal(t, 1.0, got.Score)
}

func TestEstimateRejectsUnknownLabel(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "Yen steady", URL: "https://d/1", Source: "Nikkei", PublishedAt: "2026-08-30T10:00:00Z"},
	}
	e := estimatorWith(articles, &stubCompleter{
		response: `{"sentiment": "to the moon", "score": 0.9}`,
	})

	got := e.Estimate(context.Background(), "USD/JPY")
	assert.Equal(t, models.SentimentNeutral, got.Sentiment)
}
