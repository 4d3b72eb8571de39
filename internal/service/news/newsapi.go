package news

import (
	"context"
	"fmt"
	"strconv"

	"TradeIQ/internal/domain/models"
	xhttp "TradeIQ/pkg/http"
)

const newsAPIEndpoint = "https://newsapi.org/v2/everything"

// NewsAPIProvider searches the NewsAPI everything endpoint by keyword.
type NewsAPIProvider struct {
	apiKey   string
	endpoint string
	client   *xhttp.Client
}

func NewNewsAPIProvider(apiKey string, client *xhttp.Client) *NewsAPIProvider {
	return &NewsAPIProvider{apiKey: apiKey, endpoint: newsAPIEndpoint, client: client}
}

func (p *NewsAPIProvider) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (p *NewsAPIProvider) Search(ctx context.Context, query string, limit int) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	var resp newsAPIResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.endpoint,
		QueryParams: map[string][]string{
			"q":        {query},
			"apiKey":   {p.apiKey},
			"sortBy":   {"publishedAt"},
			"pageSize": {strconv.Itoa(limit)},
			"language": {"en"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("newsapi search: %w", err)
	}

	articles := make([]models.NewsArticle, 0, limit)
	for _, a := range resp.Articles {
		if len(articles) >= limit {
			break
		}
		source := a.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      source,
		})
	}
	return articles, nil
}
