package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/compliance"
	"TradeIQ/internal/service/llm"
	"TradeIQ/pkg/logger"
	"TradeIQ/pkg/util"
)

// Bluesky's post length limit, in characters.
const maxPostChars = 300

const platformBluesky = "bluesky"

// DefaultHashtags is the hashtag pair used when the model supplies none.
var DefaultHashtags = []string{"#TradeIQ", "#Markets"}

// ContentCreator produces the compliance-constrained social post. The
// length bound and the trailing disclaimer are enforced in post-processing
// regardless of what the model returned.
type ContentCreator struct {
	completer repository.Completer
	logger    *logger.Logger
	now       func() time.Time
}

func NewContentCreator(completer repository.Completer, log *logger.Logger) *ContentCreator {
	return &ContentCreator{completer: completer, logger: log, now: time.Now}
}

type contentPayload struct {
	Post       string   `json:"post"`
	Hashtags   []string `json:"hashtags"`
	DataPoints []string `json:"data_points"`
}

func (c *ContentCreator) Generate(ctx context.Context, report models.AnalysisReport, insight *models.PersonalizedInsight) models.MarketCommentary {
	raw, err := c.completer.Complete(ctx, contentSystemPrompt, c.buildPrompt(report, insight), 0.7, 500)
	if err != nil {
		c.logger.Warn("content completion failed",
			logger.String("instrument", report.Instrument),
			logger.Error(err))
		return c.fallbackCommentary(report)
	}

	var payload contentPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		c.logger.Warn("content payload unparsable",
			logger.String("instrument", report.Instrument),
			logger.Error(err))
		return c.fallbackCommentary(report)
	}

	commentary := models.MarketCommentary{
		Post:        EnforcePostInvariants(payload.Post),
		Hashtags:    payload.Hashtags,
		DataPoints:  payload.DataPoints,
		Platform:    platformBluesky,
		GeneratedAt: c.now(),
	}
	if len(commentary.Hashtags) == 0 {
		commentary.Hashtags = DefaultHashtags
	}
	if commentary.DataPoints == nil {
		commentary.DataPoints = []string{}
	}
	if ok, violations := compliance.Check(commentary.Post); !ok {
		c.logger.Warn("generated post failed compliance filter",
			logger.String("instrument", report.Instrument),
			logger.Strings("violations", violations))
		return c.fallbackCommentary(report)
	}
	return commentary
}

// EnforcePostInvariants appends the disclaimer when it is missing and still
// fits, then hard-truncates to the platform limit. Both bounds count
// characters, not bytes.
func EnforcePostInvariants(post string) string {
	if !compliance.HasDisclaimer(post) {
		candidate := strings.TrimRight(post, " \t\n") + "\n" + compliance.Disclaimer
		if util.RuneLen(candidate) <= maxPostChars {
			post = candidate
		}
	}
	if util.RuneLen(post) > maxPostChars {
		post = util.TruncateRunes(post, maxPostChars)
	}
	return post
}

func (c *ContentCreator) buildPrompt(report models.AnalysisReport, insight *models.PersonalizedInsight) string {
	insightContext := ""
	if insight != nil {
		insightContext = fmt.Sprintf("\nPersonalised Context:\n- Impact: %s\n- Risk: %s\n",
			insight.ImpactSummary, insight.RiskAssessment)
	}

	sources := make([]string, 0, 3)
	for _, s := range report.NewsSources {
		if len(sources) >= 3 {
			break
		}
		sources = append(sources, s.Source)
	}

	return fmt.Sprintf(`Create Bluesky market commentary post based on:

Analysis Report:
- Instrument: %s
- Event: %s
- Root Causes: %s
- Sentiment: %s (score: %v)
- Key Data: %s
- Sources: %s
%s
Generate an English Bluesky post <= 300 chars. Return JSON only.`,
		report.Instrument, report.EventSummary,
		strings.Join(firstN(report.RootCauses, 3), "; "),
		report.Sentiment, report.SentimentScore,
		strings.Join(firstN(report.KeyDataPoints, 3), "; "),
		strings.Join(sources, ", "),
		insightContext)
}

func (c *ContentCreator) fallbackCommentary(report models.AnalysisReport) models.MarketCommentary {
	return models.MarketCommentary{
		Post:        fmt.Sprintf("📊 %s moved %s. %s", report.Instrument, report.Sentiment, compliance.Disclaimer),
		Hashtags:    DefaultHashtags,
		DataPoints:  []string{report.EventSummary},
		Platform:    platformBluesky,
		GeneratedAt: c.now(),
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
