package compliance

import (
	"fmt"
	"regexp"
	"strings"
)

// Disclaimer is appended to every published post.
const Disclaimer = "📊 Analysis by TradeIQ | Not financial advice"

// DisclaimerMarker identifies a post that already carries the disclaimer.
const DisclaimerMarker = "Analysis by TradeIQ"

var blocklist = []string{"guaranteed", "moon", "easy money", "get rich", "sure thing"}

var predictionPattern = regexp.MustCompile(`\b(will (hit|reach|go to)|price (will|going to))\b`)

// Check runs the post-generation filter and returns whether the text passed
// along with the violations found.
func Check(text string) (bool, []string) {
	var violations []string
	lower := strings.ToLower(text)
	for _, word := range blocklist {
		if strings.Contains(lower, word) {
			violations = append(violations, fmt.Sprintf("Blocklisted term: %s", word))
		}
	}
	if predictionPattern.MatchString(lower) {
		violations = append(violations, "Prediction language detected")
	}
	return len(violations) == 0, violations
}

// HasDisclaimer reports whether the text already contains the disclaimer.
func HasDisclaimer(text string) bool {
	return strings.Contains(text, DisclaimerMarker)
}

// AppendDisclaimer attaches the disclaimer on its own paragraph.
func AppendDisclaimer(text string) string {
	return text + "\n\n" + Disclaimer
}
