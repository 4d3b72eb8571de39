package models

import "time"

// Event direction and magnitude labels.
const (
	DirectionSpike = "spike"
	DirectionDrop  = "drop"

	MagnitudeHigh   = "high"
	MagnitudeMedium = "medium"
)

// Sentiment labels shared by the analyst and the sentiment estimator.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// Risk labels produced by the portfolio advisor.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// Pipeline terminal and transient statuses.
const (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusPartial    = "partial"
	StatusNoEvent    = "no_event"
	StatusError      = "error"
)

// VolatilityEvent is the market monitor's output: one significant price
// movement. Direction is "spike" iff the change is positive.
type VolatilityEvent struct {
	Instrument     string         `json:"instrument"`
	CurrentPrice   *float64       `json:"current_price"`
	PriceChangePct float64        `json:"price_change_pct"`
	Direction      string         `json:"direction"`
	Magnitude      string         `json:"magnitude"`
	DetectedAt     time.Time      `json:"detected_at"`
	RawData        map[string]any `json:"raw_data,omitempty"`
}

// NewVolatilityEvent builds an event, deriving direction from the sign of
// changePct and stamping detectedAt when the caller passes a zero time.
func NewVolatilityEvent(instrument string, price *float64, changePct float64, magnitude string, raw map[string]any, detectedAt time.Time) VolatilityEvent {
	direction := DirectionSpike
	if changePct <= 0 {
		direction = DirectionDrop
	}
	if detectedAt.IsZero() {
		detectedAt = time.Now()
	}
	return VolatilityEvent{
		Instrument:     instrument,
		CurrentPrice:   price,
		PriceChangePct: changePct,
		Direction:      direction,
		Magnitude:      magnitude,
		DetectedAt:     detectedAt,
		RawData:        raw,
	}
}

// NewsSource is a compact citation carried inside an analysis report.
type NewsSource struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

// AnalysisReport is the analyst's structured explanation of an event.
// RootCauses is never empty and NewsSources is never nil.
type AnalysisReport struct {
	Instrument     string       `json:"instrument"`
	EventSummary   string       `json:"event_summary"`
	RootCauses     []string     `json:"root_causes"`
	NewsSources    []NewsSource `json:"news_sources"`
	Sentiment      string       `json:"sentiment"`
	SentimentScore float64      `json:"sentiment_score"`
	KeyDataPoints  []string     `json:"key_data_points"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// Position is a single portfolio holding supplied by the caller.
type Position struct {
	Instrument string  `json:"instrument"`
	Direction  string  `json:"direction"`
	Size       float64 `json:"size"`
	EntryPrice float64 `json:"entry_price"`
	PnL        float64 `json:"pnl"`
}

// PersonalizedInsight relates an analysis report to the caller's holdings.
// Suggestions are educational, never predictive.
type PersonalizedInsight struct {
	Instrument        string     `json:"instrument"`
	ImpactSummary     string     `json:"impact_summary"`
	AffectedPositions []Position `json:"affected_positions"`
	RiskAssessment    string     `json:"risk_assessment"`
	Suggestions       []string   `json:"suggestions"`
	GeneratedAt       time.Time  `json:"generated_at"`
}

// MarketCommentary is a compliance-constrained social post. Post never
// exceeds 300 characters.
type MarketCommentary struct {
	Post        string    `json:"post"`
	Hashtags    []string  `json:"hashtags"`
	DataPoints  []string  `json:"data_points"`
	Platform    string    `json:"platform"`
	Published   bool      `json:"published"`
	PostURI     string    `json:"post_uri,omitempty"`
	PostURL     string    `json:"post_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PipelineResult bundles every stage's output for one run. The orchestrator
// is the only writer of Status and Errors.
type PipelineResult struct {
	RunID               string               `json:"run_id"`
	Status              string               `json:"status"`
	VolatilityEvent     *VolatilityEvent     `json:"volatility_event,omitempty"`
	AnalysisReport      *AnalysisReport      `json:"analysis_report,omitempty"`
	PersonalizedInsight *PersonalizedInsight `json:"personalized_insight,omitempty"`
	MarketCommentary    *MarketCommentary    `json:"market_commentary,omitempty"`
	Errors              []string             `json:"errors"`
	StartedAt           time.Time            `json:"pipeline_started_at"`
	FinishedAt          time.Time            `json:"pipeline_finished_at"`
}
