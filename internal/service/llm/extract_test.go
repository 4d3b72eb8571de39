package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentimentPayload struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

func TestDecodeJSONPlainObject(t *testing.T) {
	var p sentimentPayload
	err := DecodeJSON(`{"sentiment":"bullish","confidence":0.8}`, &p)
	require.NoError(t, err)
	assert.Equal(t, "bullish", p.Sentiment)
	assert.Equal(t, 0.8, p.Confidence)
}

func TestDecodeJSONFencedWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"sentiment\": \"bearish\", \"confidence\": 0.6}\n```"
	var p sentimentPayload
	require.NoError(t, DecodeJSON(raw, &p))
	assert.Equal(t, "bearish", p.Sentiment)
}

func TestDecodeJSONSurroundingProse(t *testing.T) {
	raw := "Here is the analysis you asked for:\n{\"sentiment\": \"neutral\", \"confidence\": 0.5}\nLet me know if you need more."
	var p sentimentPayload
	require.NoError(t, DecodeJSON(raw, &p))
	assert.Equal(t, "neutral", p.Sentiment)
}

func TestDecodeJSONRepairsTrailingComma(t *testing.T) {
	raw := `{"sentiment": "bullish", "confidence": 0.7,}`
	var p sentimentPayload
	require.NoError(t, DecodeJSON(raw, &p))
	assert.Equal(t, "bullish", p.Sentiment)
}

func TestDecodeJSONRepairsSingleQuotes(t *testing.T) {
	raw := `{'sentiment': 'bearish', 'confidence': 0.9}`
	var p sentimentPayload
	require.NoError(t, DecodeJSON(raw, &p))
	assert.Equal(t, "bearish", p.Sentiment)
}

func TestDecodeJSONEmptyCompletionErrors(t *testing.T) {
	var p sentimentPayload
	assert.Error(t, DecodeJSON("   ", &p))
}

func TestStripFencesKeepsArrays(t *testing.T) {
	raw := "```\n[\"#Forex\", \"#EURUSD\"]\n```"
	assert.Equal(t, `["#Forex", "#EURUSD"]`, StripFences(raw))
}
