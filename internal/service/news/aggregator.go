package news

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/cache"
	"TradeIQ/internal/service/ratelimit"
	"TradeIQ/pkg/logger"
)

// DefaultLimit is the article count used when the caller passes none.
const DefaultLimit = 5

// Aggregator merges articles from every configured provider. A provider
// failure costs only that provider's articles; the merged result is deduped
// by URL (falling back to lower-cased title) and sorted newest first.
type Aggregator struct {
	providers []repository.NewsProvider
	limiter   *ratelimit.Limiter
	capacity  float64
	perSec    float64
	cache     cache.BytesCache
	cacheTTL  time.Duration
	logger    *logger.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithCache enables result caching. A cached query skips the providers
// entirely, which keeps repeat scans inside the upstream rate limits.
func WithCache(c cache.BytesCache, ttl time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

func NewAggregator(providers []repository.NewsProvider, limiter *ratelimit.Limiter, capacity, perSec float64, log *logger.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		providers: providers,
		limiter:   limiter,
		capacity:  capacity,
		perSec:    perSec,
		logger:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search fans the query out to all providers and merges the results.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) []models.NewsArticle {
	if limit < 1 {
		limit = DefaultLimit
	}

	cacheKey := fmt.Sprintf("tradeiq:news:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
	if a.cache != nil {
		if b, ok, err := a.cache.GetBytes(cacheKey); err == nil && ok {
			var cached []models.NewsArticle
			if json.Unmarshal(b, &cached) == nil {
				return cached
			}
		}
	}

	var combined []models.NewsArticle
	for _, p := range a.providers {
		if a.limiter != nil && !a.limiter.Allow("news:"+p.Name(), a.capacity, a.perSec) {
			a.logger.Warn("news provider rate limited",
				logger.String("provider", p.Name()))
			continue
		}
		articles, err := p.Search(ctx, query, limit)
		if err != nil {
			a.logger.Warn("news provider failed",
				logger.String("provider", p.Name()),
				logger.Error(err))
			continue
		}
		combined = append(combined, articles...)
	}

	deduped := Dedupe(combined)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].PublishedAt > deduped[j].PublishedAt
	})
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}

	if a.cache != nil && len(deduped) > 0 {
		if b, err := json.Marshal(deduped); err == nil {
			if err := a.cache.SetBytes(cacheKey, b, a.cacheTTL); err != nil {
				a.logger.Warn("news cache write failed", logger.Error(err))
			}
		}
	}
	return deduped
}

// Dedupe removes articles sharing a URL, or a lower-cased title when the
// URL is empty. Articles with neither are dropped.
func Dedupe(articles []models.NewsArticle) []models.NewsArticle {
	seen := make(map[string]struct{}, len(articles))
	out := make([]models.NewsArticle, 0, len(articles))
	for _, a := range articles {
		key := strings.TrimSpace(a.URL)
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(a.Title))
		}
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
