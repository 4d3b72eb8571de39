package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCleanTextPasses(t *testing.T) {
	ok, violations := Check("EUR/USD moved on ECB commentary. Volatility remains elevated.")
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestCheckBlocklistedTerms(t *testing.T) {
	ok, violations := Check("This trade is GUARANTEED to print easy money")
	assert.False(t, ok)
	assert.Len(t, violations, 2)
}

func TestCheckPredictionLanguage(t *testing.T) {
	ok, violations := Check("BTC will hit 120k next week")
	assert.False(t, ok)
	assert.Contains(t, violations, "Prediction language detected")

	ok, _ = Check("the price will drop soon")
	assert.False(t, ok)
}

func TestCheckDoesNotFlagPastTense(t *testing.T) {
	ok, _ := Check("Price reached a new high yesterday before pulling back.")
	assert.True(t, ok)
}

func TestHasDisclaimer(t *testing.T) {
	assert.False(t, HasDisclaimer("plain post"))
	assert.True(t, HasDisclaimer(AppendDisclaimer("plain post")))
}
