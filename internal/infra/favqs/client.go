// Package favqs fetches keyword-filtered quotes from the FavQs API and translates
// them into domain quotes.
package favqs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"quote-quiz-service/internal/domain"
	"quote-quiz-service/internal/metrics"
)

const (
	DefaultBaseURL = "https://favqs.com/api"
	DefaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of a failed response is kept for logging.
	maxErrorBody = 512
)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
	// HTTPClient overrides the default client; its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client issues one authenticated GET per search.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// quotesResponse is the external DTO; it never leaves this package.
type quotesResponse struct {
	Quotes []struct {
		ID     int    `json:"id"`
		Author string `json:"author"`
		Body   string `json:"body"`
	} `json:"quotes"`
}

// LoadQuotes returns the quotes matching keyword that carry both an author and a body.
func (c *Client) LoadQuotes(ctx context.Context, keyword string) ([]domain.Quote, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.ErrEmptyKeyword
	}

	q := url.Values{}
	q.Set("filter", keyword)
	q.Set("type", "keyword")
	endpoint := c.baseURL + "/quotes/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrQuoteSourceUnavailable, err)
	}
	req.Header.Set("Authorization", fmt.Sprintf(`Token token="%s"`, c.apiKey))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveSource(0, time.Since(start))
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteSourceUnavailable, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveSource(resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.statusError(resp)
	}

	var payload quotesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrQuoteSourceUnavailable, err)
	}

	quotes := make([]domain.Quote, 0, len(payload.Quotes))
	for _, ext := range payload.Quotes {
		author, body := strings.TrimSpace(ext.Author), strings.TrimSpace(ext.Body)
		if author == "" || body == "" {
			continue
		}
		quotes = append(quotes, domain.Quote{Body: body, Author: author})
	}
	c.logger.Debugw("quotes fetched", "keyword", keyword, "received", len(payload.Quotes), "kept", len(quotes))

	if len(quotes) == 0 {
		return nil, domain.ErrNoQuotesFound
	}
	return quotes, nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	c.logger.Warnw("quote API error", "status", resp.StatusCode, "body", string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: unauthorized (HTTP %d), check API_KEY", domain.ErrQuoteSourceUnavailable, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit exceeded", domain.ErrQuoteSourceUnavailable)
	default:
		return fmt.Errorf("%w: unexpected HTTP %d", domain.ErrQuoteSourceUnavailable, resp.StatusCode)
	}
}
