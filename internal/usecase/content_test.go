package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/service/compliance"
	"TradeIQ/pkg/logger"
)

func newTestContentCreator(completer *fakeCompleter) *ContentCreator {
	c := NewContentCreator(completer, logger.Nop())
	c.now = fixedClock()
	return c
}

func TestGenerateAppendsMissingDisclaimer(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"post": "📈 EUR/USD dropped 2.0% on ECB commentary.",
		"hashtags": ["#Forex", "#EURUSD"],
		"data_points": ["-2.0%"]
	}`}
	c := newTestContentCreator(completer)

	commentary := c.Generate(context.Background(), sampleReport("EUR/USD"), nil)
	assert.True(t, compliance.HasDisclaimer(commentary.Post))
	assert.True(t, strings.HasSuffix(commentary.Post, compliance.Disclaimer))
	assert.LessOrEqual(t, utf8.RuneCountInString(commentary.Post), 300)
	assert.Equal(t, []string{"#Forex", "#EURUSD"}, commentary.Hashtags)
	assert.Equal(t, "bluesky", commentary.Platform)
	assert.False(t, commentary.Published)
}

func TestGenerateTruncatesOverlongPost(t *testing.T) {
	long := strings.Repeat("markets are moving ", 25) + compliance.Disclaimer
	completer := &fakeCompleter{response: `{"post": ` + jsonString(long) + `, "hashtags": ["#x"], "data_points": []}`}
	c := newTestContentCreator(completer)

	commentary := c.Generate(context.Background(), sampleReport("EUR/USD"), nil)
	assert.Equal(t, 300, utf8.RuneCountInString(commentary.Post))
	assert.True(t, strings.HasSuffix(commentary.Post, "..."))
}

func TestGenerateFallbackOnModelError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model down")}
	c := newTestContentCreator(completer)

	commentary := c.Generate(context.Background(), sampleReport("GOLD"), nil)
	assert.Equal(t, "📊 GOLD moved bearish. "+compliance.Disclaimer, commentary.Post)
	assert.Equal(t, DefaultHashtags, commentary.Hashtags)
	assert.Equal(t, []string{"GOLD moved sharply"}, commentary.DataPoints)
}

func TestGenerateFallbackOnComplianceViolation(t *testing.T) {
	completer := &fakeCompleter{response: `{"post": "BTC will hit 120k, guaranteed!", "hashtags": ["#moon"], "data_points": []}`}
	c := newTestContentCreator(completer)

	commentary := c.Generate(context.Background(), sampleReport("BTC/USD"), nil)
	assert.Equal(t, "📊 BTC/USD moved bearish. "+compliance.Disclaimer, commentary.Post)
}

func TestGenerateDefaultsHashtagsAndDataPoints(t *testing.T) {
	completer := &fakeCompleter{response: `{"post": "📈 Quiet session across majors."}`}
	c := newTestContentCreator(completer)

	commentary := c.Generate(context.Background(), sampleReport("EUR/USD"), nil)
	assert.Equal(t, DefaultHashtags, commentary.Hashtags)
	require.NotNil(t, commentary.DataPoints)
	assert.Empty(t, commentary.DataPoints)
}

func TestEnforcePostInvariantsSkipsAppendWhenTooLong(t *testing.T) {
	// 299 chars without disclaimer: appending would overflow, so it stays.
	post := strings.Repeat("a", 299)
	got := EnforcePostInvariants(post)
	assert.Equal(t, post, got)
	assert.False(t, compliance.HasDisclaimer(got))
}

func TestGenerateIncludesInsightContext(t *testing.T) {
	completer := &fakeCompleter{response: `{"post": "📈 ok", "hashtags": ["#a"], "data_points": []}`}
	c := newTestContentCreator(completer)

	insight := &models.PersonalizedInsight{
		Instrument:     "EUR/USD",
		ImpactSummary:  "Your EUR/USD long is exposed.",
		RiskAssessment: models.RiskHigh,
	}
	commentary := c.Generate(context.Background(), sampleReport("EUR/USD"), insight)
	assert.NotEmpty(t, commentary.Post)
	assert.Equal(t, 1, completer.calls)
}

func jsonString(s string) string {
	b := strings.Builder{}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
