// Package scraper fetches a creator's LinkedIn posts through an Apify actor
// and ranks them by engagement. It is a transport-level collaborator; the
// generation pipeline never depends on it.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultActorID is the Apify actor used for LinkedIn post scraping.
const DefaultActorID = "LQQIXN9Othf8f7R5n"

const defaultBaseURL = "https://api.apify.com"

// FetchParams identify what to scrape.
type FetchParams struct {
	Username   string `json:"username"`
	PageNumber int    `json:"page_number"`
	Limit      int    `json:"limit"`
}

// Post is one scraped LinkedIn post.
type Post struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	PostedAt struct {
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"` // milliseconds
	} `json:"posted_at"`
	Stats struct {
		TotalReactions int `json:"total_reactions"`
		Comments       int `json:"comments"`
		Reposts        int `json:"reposts"`
	} `json:"stats"`
}

// Result bundles the raw posts with their engagement analysis.
type Result struct {
	Posts    []Post    `json:"posts"`
	Analysis *Analysis `json:"analysis"`
}

// ClientConfig contains configuration for creating a scraper Client.
type ClientConfig struct {
	// APIToken is the Apify API token.
	APIToken string
	// ActorID overrides the scraping actor. Defaults to DefaultActorID.
	ActorID string
	// BaseURL overrides the Apify endpoint, used by tests.
	BaseURL string
	// RequestsPerMinute caps outbound scrape calls. Defaults to 30.
	RequestsPerMinute int
	// Timeout bounds one scrape call end to end. Defaults to 2 minutes.
	Timeout time.Duration
}

// Client calls the Apify run-sync API with rate limiting.
type Client struct {
	token   string
	actorID string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a scraper client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("APIFY_API_TOKEN is not set")
	}

	actorID := cfg.ActorID
	if actorID == "" {
		actorID = DefaultActorID
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		token:   cfg.APIToken,
		actorID: actorID,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}, nil
}

// FetchPosts runs the actor synchronously and returns the scraped posts.
func (c *Client) FetchPosts(ctx context.Context, params FetchParams) ([]Post, error) {
	if params.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if params.PageNumber <= 0 {
		params.PageNumber = 1
	}
	if params.Limit <= 0 {
		params.Limit = 100
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, c.actorID, url.QueryEscape(c.token))

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode actor input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[scraper] fetching posts for user=%s page=%d limit=%d", params.Username, params.PageNumber, params.Limit)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scrape request failed: status %d: %s", resp.StatusCode, msg)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}
	return posts, nil
}

// FetchAndAnalyze fetches posts and ranks them by engagement.
func (c *Client) FetchAndAnalyze(ctx context.Context, params FetchParams) (*Result, error) {
	posts, err := c.FetchPosts(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		log.Printf("[scraper] no posts found for user=%s", params.Username)
		return &Result{}, nil
	}
	return &Result{
		Posts:    posts,
		Analysis: Analyze(posts, DefaultTopN, time.Now()),
	}, nil
}
