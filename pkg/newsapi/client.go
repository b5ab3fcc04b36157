// Package newsapi reads events, quotes and stories from the upstream news API.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-portal/internal/domain"
	"github.com/samvad-hq/samvad-news-portal/internal/textutil"
	"github.com/samvad-hq/samvad-news-portal/pkg/httpclient"
)

// ErrNotFound is returned when the upstream API answers 404.
var ErrNotFound = domain.ErrNotFound

// StatusError is a non-2xx upstream answer.
type StatusError struct {
	Op      string
	Status  int
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("newsapi %s: status %d: %s", e.Op, e.Status, e.Snippet)
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	MaxAttempts int
	RetryDelay  time.Duration
}

// Client is a thin typed wrapper around the upstream JSON endpoints.
type Client struct {
	http    httpclient.Client
	baseURL string
	headers map[string]string
	retry   retryConfig
}

// New builds a Client. A nil http client uses resty with a 10s timeout.
func New(hc httpclient.Client, opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("newsapi base url is required")
	}
	if hc == nil {
		hc = httpclient.NewRestyClient(10 * time.Second)
	}
	headers := map[string]string{}
	if opts.APIKey != "" {
		headers["X-Api-Key"] = opts.APIKey
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 2
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	return &Client{
		http:    hc,
		baseURL: base,
		headers: headers,
		retry:   retryConfig{maxAttempts: opts.MaxAttempts, delay: opts.RetryDelay},
	}, nil
}

// LatestEvents returns the most recent events of locale, newest first.
func (c *Client) LatestEvents(ctx context.Context, locale domain.Locale, limit int) ([]domain.NewsEvent, error) {
	var events []domain.NewsEvent
	if err := c.getJSON(ctx, "latest_events", "/events/latest", localeQuery(locale, limit), &events); err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Summary = textutil.StripHTML(events[i].Summary)
	}
	return events, nil
}

// LatestQuotes returns the most recent quotes of locale.
func (c *Client) LatestQuotes(ctx context.Context, locale domain.Locale, limit int) ([]domain.Quote, error) {
	var quotes []domain.Quote
	if err := c.getJSON(ctx, "latest_quotes", "/quotes/latest", localeQuery(locale, limit), &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// Story returns a single story by id.
func (c *Client) Story(ctx context.Context, locale domain.Locale, id string) (domain.Story, error) {
	var story domain.Story
	if strings.TrimSpace(id) == "" {
		return story, fmt.Errorf("newsapi story: empty id")
	}
	if err := c.getJSON(ctx, "story", "/stories/"+id, localeQuery(locale, 0), &story); err != nil {
		return domain.Story{}, err
	}
	story.Summary = textutil.StripHTML(story.Summary)
	return story, nil
}

// LatestStories returns the most recent stories of locale.
func (c *Client) LatestStories(ctx context.Context, locale domain.Locale, limit int) ([]domain.Story, error) {
	var stories []domain.Story
	if err := c.getJSON(ctx, "latest_stories", "/stories/latest", localeQuery(locale, limit), &stories); err != nil {
		return nil, err
	}
	for i := range stories {
		stories[i].Summary = textutil.StripHTML(stories[i].Summary)
	}
	return stories, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query map[string]string, dst any) error {
	var body []byte
	err := withRetry(ctx, c.retry, func() error {
		resp, err := c.http.Get(ctx, c.baseURL+path, query, c.headers)
		if err != nil {
			return fmt.Errorf("newsapi %s: %w", op, err)
		}
		status := resp.StatusCode()
		switch {
		case status == http.StatusNotFound:
			return permanent(fmt.Errorf("newsapi %s: %w", op, ErrNotFound))
		case status >= 500:
			return &StatusError{Op: op, Status: status, Snippet: httpclient.BodySnippet(resp.Body())}
		case status < 200 || status > 299:
			return permanent(&StatusError{Op: op, Status: status, Snippet: httpclient.BodySnippet(resp.Body())})
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("newsapi %s: decode: %w", op, err)
	}
	return nil
}

func localeQuery(locale domain.Locale, limit int) map[string]string {
	q := map[string]string{
		"lang":    locale.Lang,
		"country": locale.Country,
	}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}
	return q
}
