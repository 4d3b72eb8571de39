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
	"TradeIQ/pkg/logger"
)

// DefaultPortfolio is the illustrative portfolio used when the caller
// supplies none.
var DefaultPortfolio = []models.Position{
	{Instrument: "EUR/USD", Direction: "long", Size: 1.0, EntryPrice: 1.0830, PnL: 12.50},
	{Instrument: "BTC/USD", Direction: "long", Size: 0.1, EntryPrice: 95000, PnL: 250.00},
	{Instrument: "GOLD", Direction: "short", Size: 0.5, EntryPrice: 2860, PnL: -15.00},
}

// Advisor relates an analysis report to the caller's holdings. The affected
// position subset is computed deterministically; only the narrative comes
// from the model, and a model failure degrades to a generic assessment.
type Advisor struct {
	completer repository.Completer
	logger    *logger.Logger
	now       func() time.Time
}

func NewAdvisor(completer repository.Completer, log *logger.Logger) *Advisor {
	return &Advisor{completer: completer, logger: log, now: time.Now}
}

type advisorPayload struct {
	ImpactSummary  string   `json:"impact_summary"`
	RiskAssessment string   `json:"risk_assessment"`
	Suggestions    []string `json:"suggestions"`
}

func (a *Advisor) Interpret(ctx context.Context, report models.AnalysisReport, portfolio []models.Position) models.PersonalizedInsight {
	if len(portfolio) == 0 {
		portfolio = DefaultPortfolio
	}
	affected := AffectedPositions(report.Instrument, portfolio)

	raw, err := a.completer.Complete(ctx, advisorSystemPrompt, a.buildPrompt(report, portfolio, affected), 0.5, 500)
	if err != nil {
		a.logger.Warn("advisor completion failed",
			logger.String("instrument", report.Instrument),
			logger.Error(err))
		return a.fallbackInsight(report, affected)
	}

	var payload advisorPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		a.logger.Warn("advisor payload unparsable",
			logger.String("instrument", report.Instrument),
			logger.Error(err))
		return a.fallbackInsight(report, affected)
	}

	insight := models.PersonalizedInsight{
		Instrument:        report.Instrument,
		ImpactSummary:     payload.ImpactSummary,
		AffectedPositions: affected,
		RiskAssessment:    payload.RiskAssessment,
		Suggestions:       payload.Suggestions,
		GeneratedAt:       a.now(),
	}
	if insight.ImpactSummary == "" {
		insight.ImpactSummary = "Impact assessment unavailable."
	}
	if !validRisk(insight.RiskAssessment) {
		insight.RiskAssessment = models.RiskMedium
	}
	if len(insight.Suggestions) == 0 {
		insight.Suggestions = []string{"Review your position sizing."}
	}
	return insight
}

// AffectedPositions selects positions whose instrument matches the event
// instrument by bidirectional case-insensitive substring.
func AffectedPositions(instrument string, portfolio []models.Position) []models.Position {
	target := strings.ToUpper(instrument)
	affected := make([]models.Position, 0, len(portfolio))
	for _, p := range portfolio {
		held := strings.ToUpper(p.Instrument)
		if held == target || strings.Contains(held, target) || strings.Contains(target, held) {
			affected = append(affected, p)
		}
	}
	return affected
}

func (a *Advisor) buildPrompt(report models.AnalysisReport, portfolio, affected []models.Position) string {
	portfolioJSON, _ := json.MarshalIndent(portfolio, "", "  ")
	affectedContext := "No directly affected positions."
	if len(affected) > 0 {
		b, _ := json.MarshalIndent(affected, "", "  ")
		affectedContext = string(b)
	}

	return fmt.Sprintf(`Market Analysis Report:
- Instrument: %s
- Event: %s
- Root Causes: %s
- Sentiment: %s (score: %v)
- Key Data Points: %s

User Portfolio:
%s

Directly Affected Positions:
%s

Provide a personalised impact assessment. Return JSON only.`,
		report.Instrument, report.EventSummary, strings.Join(report.RootCauses, "; "),
		report.Sentiment, report.SentimentScore, strings.Join(report.KeyDataPoints, "; "),
		portfolioJSON, affectedContext)
}

func (a *Advisor) fallbackInsight(report models.AnalysisReport, affected []models.Position) models.PersonalizedInsight {
	return models.PersonalizedInsight{
		Instrument:        report.Instrument,
		ImpactSummary:     fmt.Sprintf("The %s event may relate to your current positions.", report.Instrument),
		AffectedPositions: affected,
		RiskAssessment:    models.RiskMedium,
		Suggestions:       []string{"Consider reviewing your exposure to this instrument."},
		GeneratedAt:       a.now(),
	}
}

func validRisk(risk string) bool {
	switch risk {
	case models.RiskHigh, models.RiskMedium, models.RiskLow:
		return true
	}
	return false
}
