package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeIQ/pkg/config"
	xhttp "TradeIQ/pkg/http"
	"TradeIQ/pkg/logger"
)

const postCollection = "app.bsky.feed.post"

// BlueskyPublisher posts commentary to Bluesky over the AT protocol. Each
// publish creates a fresh session; the app-password flow has no refresh
// semantics worth caching for one post per pipeline run.
type BlueskyPublisher struct {
	cfg    config.BlueskyConfig
	client *xhttp.Client
	logger *logger.Logger
	now    func() time.Time
}

func NewBlueskyPublisher(cfg config.BlueskyConfig, log *logger.Logger) *BlueskyPublisher {
	return &BlueskyPublisher{
		cfg:    cfg,
		client: xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		logger: log,
		now:    time.Now,
	}
}

type sessionResponse struct {
	AccessJWT string `json:"accessJwt"`
	DID       string `json:"did"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

func (p *BlueskyPublisher) Publish(ctx context.Context, text string) (string, string, error) {
	session, err := p.createSession(ctx)
	if err != nil {
		return "", "", fmt.Errorf("bluesky session: %w", err)
	}

	record := map[string]interface{}{
		"$type":     postCollection,
		"text":      text,
		"createdAt": p.now().UTC().Format(time.RFC3339),
	}

	var created createRecordResponse
	err = p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     p.cfg.ServiceURL + "/xrpc/com.atproto.repo.createRecord",
		Headers: map[string]string{"Authorization": "Bearer " + session.AccessJWT},
		Body: map[string]interface{}{
			"repo":       session.DID,
			"collection": postCollection,
			"record":     record,
		},
	}, &created)
	if err != nil {
		return "", "", fmt.Errorf("bluesky create record: %w", err)
	}

	url := URIToWebURL(created.URI)
	p.logger.Info("published to bluesky",
		logger.String("uri", created.URI),
		logger.String("url", url))
	return created.URI, url, nil
}

func (p *BlueskyPublisher) createSession(ctx context.Context) (*sessionResponse, error) {
	var session sessionResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    p.cfg.ServiceURL + "/xrpc/com.atproto.server.createSession",
		Body: map[string]interface{}{
			"identifier": p.cfg.Handle,
			"password":   p.cfg.AppPassword,
		},
	}, &session)
	if err != nil {
		return nil, err
	}
	if session.AccessJWT == "" || session.DID == "" {
		return nil, fmt.Errorf("incomplete session response")
	}
	return &session, nil
}

// URIToWebURL converts an at:// record URI to the public web URL.
func URIToWebURL(uri string) string {
	parts := strings.Split(strings.TrimPrefix(uri, "at://"), "/")
	if len(parts) < 2 {
		return ""
	}
	did := parts[0]
	postID := parts[len(parts)-1]
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", did, postID)
}
