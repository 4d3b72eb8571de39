package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeIQ/internal/domain/models"
	domrepo "TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/news"
	"TradeIQ/internal/service/ratelimit"
	"TradeIQ/internal/usecase"
	"TradeIQ/pkg/config"
	"TradeIQ/pkg/logger"
)

type stubMarket struct {
	quote  models.Quote
	series models.CandleSeries
}

func (s *stubMarket) FetchQuote(ctx context.Context, instrument string) models.Quote {
	return s.quote
}

func (s *stubMarket) FetchHistory(ctx context.Context, instrument string, tf domrepo.Timeframe, count int) models.CandleSeries {
	return s.series
}

type stubSentiment struct{}

func (stubSentiment) Estimate(ctx context.Context, instrument string) models.SentimentEstimate {
	return models.NeutralSentiment(instrument, nil)
}

type stubCompleter struct{ response string }

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64, maxTokens int) (string, error) {
	return s.response, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordPipelineRun(status string)                   {}
func (stubMetrics) RecordStageDuration(stage string, seconds float64) {}
func (stubMetrics) RecordStageError(stage string)                     {}
func (stubMetrics) RecordEventDetected(instrument, magnitude string)  {}
func (stubMetrics) RecordPostPublished(platform string)               {}
func (stubMetrics) RecordLastPrice(instrument string, price float64)  {}

func newTestHandler(market *stubMarket) *PipelineEchoHandler {
	log := logger.Nop()
	cfg := config.MonitorConfig{
		Instruments:      config.DefaultInstruments,
		Thresholds:       config.DefaultThresholds,
		DefaultThreshold: 0.5,
	}
	completer := &stubCompleter{response: `{"post": "📈 ok", "root_causes": ["c"], "sentiment": "neutral", "sentiment_score": 0, "impact_summary": "i", "risk_assessment": "low", "suggestions": ["s"]}`}
	aggregator := news.NewAggregator(nil, ratelimit.New(), 100, 100, log)
	sentiment := stubSentiment{}

	monitor := usecase.NewMonitor(market, sentiment, stubMetrics{}, cfg, log)
	analyst := usecase.NewAnalyst(aggregator, sentiment, completer, log)
	advisor := usecase.NewAdvisor(completer, log)
	content := usecase.NewContentCreator(completer, log)
	pipeline := usecase.NewPipeline(monitor, analyst, advisor, content, nil, nil, stubMetrics{}, log)

	return NewPipelineEchoHandler(log, pipeline, monitor, market, aggregator)
}

func doRequest(t *testing.T, h *PipelineEchoHandler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRunPipelineManualEvent(t *testing.T) {
	h := newTestHandler(&stubMarket{})

	body := `{"custom_event": {"instrument": "BTC/USD", "price": 97250, "change_pct": 5.2}}`
	rec := doRequest(t, h, http.MethodPost, "/api/pipeline", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.PipelineResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.StatusSuccess, envelope.Data.Status)
	require.NotNil(t, envelope.Data.VolatilityEvent)
	assert.Equal(t, "spike", envelope.Data.VolatilityEvent.Direction)
	assert.Equal(t, "high", envelope.Data.VolatilityEvent.Magnitude)
}

func TestRunPipelineCustomEventDefaultsInstrument(t *testing.T) {
	h := newTestHandler(&stubMarket{})

	// omitted instrument falls back to BTC/USD
	body := `{"custom_event": {"price": 97500, "change_pct": 5.2}}`
	rec := doRequest(t, h, http.MethodPost, "/api/pipeline", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.PipelineResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.VolatilityEvent)
	assert.Equal(t, "BTC/USD", envelope.Data.VolatilityEvent.Instrument)
}

func TestQuoteEndpoint(t *testing.T) {
	price := 1.0832
	h := newTestHandler(&stubMarket{quote: models.Quote{
		Instrument: "EUR/USD",
		Price:      &price,
		Source:     "deriv",
	}})

	rec := doRequest(t, h, http.MethodGet, "/api/quote?instrument=EUR/USD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.0832")
}

func TestQuoteRequiresInstrument(t *testing.T) {
	h := newTestHandler(&stubMarket{})
	rec := doRequest(t, h, http.MethodGet, "/api/quote", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":400`)
}

func TestTechnicalsDegradedSeries(t *testing.T) {
	h := newTestHandler(&stubMarket{series: models.CandleSeries{
		Instrument: "EUR/USD",
		Timeframe:  "1h",
		Error:      "history fetch failed",
	}})

	rec := doRequest(t, h, http.MethodGet, "/api/technicals?instrument=EUR/USD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "history fetch failed")
	assert.Contains(t, rec.Body.String(), `"indicators":null`)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(&stubMarket{})
	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
