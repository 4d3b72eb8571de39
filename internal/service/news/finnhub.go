package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeIQ/internal/domain/models"
	xhttp "TradeIQ/pkg/http"
)

const finnhubEndpoint = "https://finnhub.io/api/v1/news"

// FinnhubProvider fetches the Finnhub category news feed and filters it
// against the query. Finnhub has no keyword search on the free feed, so the
// category is inferred from the query and articles are kept only when they
// mention a query token.
type FinnhubProvider struct {
	apiKey   string
	endpoint string
	client   *xhttp.Client
}

func NewFinnhubProvider(apiKey string, client *xhttp.Client) *FinnhubProvider {
	return &FinnhubProvider{apiKey: apiKey, endpoint: finnhubEndpoint, client: client}
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

type finnhubItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
}

func (p *FinnhubProvider) Search(ctx context.Context, query string, limit int) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	var items []finnhubItem
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.endpoint,
		QueryParams: map[string][]string{
			"category": {CategoryForQuery(query)},
			"token":    {p.apiKey},
		},
	}, &items)
	if err != nil {
		return nil, fmt.Errorf("finnhub news: %w", err)
	}

	tokens := queryTokens(query)
	articles := make([]models.NewsArticle, 0, limit)
	for _, item := range items {
		headline := strings.TrimSpace(item.Headline)
		summary := strings.TrimSpace(item.Summary)
		if len(tokens) > 0 && !mentionsAny(headline+" "+summary, tokens) {
			continue
		}

		publishedAt := ""
		if item.Datetime > 0 {
			publishedAt = time.Unix(item.Datetime, 0).UTC().Format(time.RFC3339)
		}
		source := item.Source
		if source == "" {
			source = "Finnhub"
		}
		articles = append(articles, models.NewsArticle{
			Title:       headline,
			Description: summary,
			URL:         item.URL,
			PublishedAt: publishedAt,
			Source:      source,
		})
		if len(articles) >= limit {
			break
		}
	}
	return articles, nil
}

// CategoryForQuery maps an instrument query onto a Finnhub feed category.
func CategoryForQuery(query string) string {
	q := strings.ToLower(query)
	for _, token := range []string{"eur", "gbp", "usd", "jpy", "forex", "xau"} {
		if strings.Contains(q, token) {
			return "forex"
		}
	}
	for _, token := range []string{"btc", "eth", "crypto"} {
		if strings.Contains(q, token) {
			return "crypto"
		}
	}
	return "general"
}

// queryTokens splits the query into lowercase tokens of at least 3 chars,
// treating "/" as a separator so "EUR/USD" yields both legs.
func queryTokens(query string) []string {
	raw := strings.Fields(strings.ReplaceAll(strings.ToLower(query), "/", " "))
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) >= 3 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func mentionsAny(text string, tokens []string) bool {
	blob := strings.ToLower(text)
	for _, t := range tokens {
		if strings.Contains(blob, t) {
			return true
		}
	}
	return false
}
