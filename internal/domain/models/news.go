package models

// NewsArticle is a normalized article from any provider. PublishedAt keeps
// the provider's RFC3339 string so articles sort lexicographically by
// recency without reparsing.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
}

// SentimentEstimate is the aggregated news sentiment for one instrument.
// When no signal is available the estimate is neutral with score 0.
type SentimentEstimate struct {
	Instrument string   `json:"instrument"`
	Sentiment  string   `json:"sentiment"`
	Score      float64  `json:"score"`
	KeyPoints  []string `json:"key_points,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Sources    []string `json:"sources"`
}

// NeutralSentiment is the fallback estimate used when news or the language
// model are unavailable.
func NeutralSentiment(instrument string, sources []string) SentimentEstimate {
	if sources == nil {
		sources = []string{}
	}
	return SentimentEstimate{
		Instrument: instrument,
		Sentiment:  SentimentNeutral,
		Score:      0.0,
		Sources:    sources,
	}
}
