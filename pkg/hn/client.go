// Package hn provides the Hacker News API client: the top story listing
// fetch and the single item fetch used by the story loader.
package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for API operations.
var (
	hnRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hn_requests_total",
		Help: "Total Hacker News API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	hnRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hn_request_duration_seconds",
		Help:    "Hacker News API request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	hnErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hn_errors_total",
		Help: "Total Hacker News API errors by endpoint and class",
	}, []string{"endpoint", "class"})
)

// Endpoint labels used in metrics and logs.
const (
	endpointTopStories = "topstories"
	endpointItem       = "item"
)

const (
	// DefaultBaseURL is the public Hacker News Firebase API.
	DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

	maxResponseBytes = 1 << 20 // 1MB
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without trailing slash.
	BaseURL string

	// UserAgent header sent with every request (optional).
	UserAgent string

	// ListingTimeout bounds the single top stories request.
	ListingTimeout time.Duration
}

// DefaultConfig returns the configuration used against the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      "hn-reader/0.1.0",
		ListingTimeout: 10 * time.Second,
	}
}

// Client talks to the Hacker News API. It is safe for concurrent use; the
// underlying http.Client is shared by all loader workers.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.ListingTimeout <= 0 {
		return nil, fmt.Errorf("listing_timeout must be > 0 (got %s)", cfg.ListingTimeout)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		// Per-request deadlines come from contexts.
		httpClient: &http.Client{},
		config:     cfg,
		logger:     logging.NewLogger("hn-client"),
	}, nil
}

// TopStoriesURL returns the listing endpoint.
func (c *Client) TopStoriesURL() string {
	return c.config.BaseURL + "/topstories.json"
}

// ItemURL returns the item endpoint for id.
func (c *Client) ItemURL(id StoryID) string {
	return c.config.BaseURL + "/item/" + strconv.Itoa(int(id)) + ".json"
}

// FetchTopStoryIDs returns the first limit ids of the current top stories
// ranking. A limit <= 0 returns the whole listing. It makes exactly one
// request; any failure is a *ListingFetchError.
func (c *Client) FetchTopStoryIDs(ctx context.Context, limit int) ([]StoryID, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.ListingTimeout)
	defer cancel()

	url := c.TopStoriesURL()
	body, statusCode, err := c.get(ctx, endpointTopStories, url)
	if err != nil {
		return nil, c.listingError(url, statusCode, ErrorClassNetwork, err)
	}
	if statusCode < 200 || statusCode > 299 {
		return nil, c.listingError(url, statusCode, classifyStatus(statusCode), nil)
	}

	var ids []StoryID
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, c.listingError(url, 0, ErrorClassDecode, fmt.Errorf("unmarshal top stories: %w", err))
	}

	total := len(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	c.logger.Info().
		Int("available", total).
		Int("limit", limit).
		Int("ids", len(ids)).
		Msg("Fetched top story ids")

	return ids, nil
}

// FetchItem fetches a single item and decodes it into a Story. Items whose
// type is not "story" are rejected with an *ItemFetchError of class
// ErrorClassType; a payload carrying another item's id is ErrorClassDecode.
// The caller bounds the request through ctx.
func (c *Client) FetchItem(ctx context.Context, id StoryID) (Story, error) {
	body, statusCode, err := c.get(ctx, endpointItem, c.ItemURL(id))
	if err != nil {
		return Story{}, c.itemError(id, 0, ErrorClassNetwork, err)
	}
	if statusCode < 200 || statusCode > 299 {
		return Story{}, c.itemError(id, statusCode, classifyStatus(statusCode), nil)
	}

	var it *item
	if err := json.Unmarshal(body, &it); err != nil {
		return Story{}, c.itemError(id, 0, ErrorClassDecode, err)
	}
	if it == nil {
		return Story{}, c.itemError(id, 0, ErrorClassDecode, ErrEmptyPayload)
	}
	if it.Type != TypeStory {
		return Story{}, c.itemError(id, 0, ErrorClassType, fmt.Errorf("type %q", it.Type))
	}
	switch {
	case it.ID == 0:
		it.ID = id
	case it.ID != id:
		return Story{}, c.itemError(id, 0, ErrorClassDecode, fmt.Errorf("payload id %d", it.ID))
	}

	return it.toStory(), nil
}

// get performs a GET request and returns the (size-limited) body and status.
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, int, error) {
	startTime := time.Now()
	defer func() {
		hnRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		hnRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, 0, err
	}
	defer resp.Body.Close()

	hnRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) listingError(url string, statusCode int, class ErrorClass, err error) error {
	hnErrorsTotal.WithLabelValues(endpointTopStories, string(class)).Inc()
	c.logger.Error().
		Err(err).
		Str("url", url).
		Int("status", statusCode).
		Str("error_class", string(class)).
		Msg("Top stories fetch failed")
	return &ListingFetchError{
		URL:        url,
		StatusCode: statusCode,
		ErrorClass: class,
		Err:        err,
	}
}

func (c *Client) itemError(id StoryID, statusCode int, class ErrorClass, err error) error {
	hnErrorsTotal.WithLabelValues(endpointItem, string(class)).Inc()
	return &ItemFetchError{
		ID:         id,
		StatusCode: statusCode,
		ErrorClass: class,
		Err:        err,
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
