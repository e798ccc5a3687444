package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/slate-tui/slate/internal/domain"
)

const (
	apiPrefix = "/api/v1"
	userAgent = "slate/1.0"

	// Page sizes the original service tolerates well.
	defaultPerPage      = "50"
	announcementPerPage = "25"
)

// Client talks to a Canvas instance with a static bearer token. It performs
// no automatic retries; rate-limit and error handling policy belongs to the
// caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// uploadClient must not follow redirects: the storage endpoint's
	// redirect has to be fetched separately, with credentials.
	uploadClient *http.Client
	logger       *slog.Logger
}

// NewClient creates a Canvas API client for the given base URL and token.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		uploadClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// apiURL joins an API path onto the configured base URL.
func (c *Client) apiURL(path string) string {
	return c.baseURL + apiPrefix + path
}

// do performs an authenticated request and maps the response status onto the
// error taxonomy. On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("canvas request", "method", method, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("canvas request failed", "url", rawURL, "error", err)
		return nil, &domain.NetworkError{Err: err}
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		c.logger.Error("canvas request error", "url", rawURL, "error", err)
		return nil, err
	}
	return resp, nil
}

// checkStatus converts an error response into a typed error, consuming the
// body where the taxonomy carries it.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(resp.Body)
		return &domain.APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// parseRetryAfter interprets a Retry-After header in seconds, defaulting to
// 1.0 when absent or unparsable.
func parseRetryAfter(header string) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(header), 64); err == nil {
		return v
	}
	return 1.0
}

// getJSON fetches a single (non-paginated) resource.
func getJSON[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var out T
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

// postJSON posts a JSON payload and decodes the JSON response.
func postJSON[T any](ctx context.Context, c *Client, rawURL string, payload any) (T, error) {
	var out T
	body, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(body), "application/json")
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

// fetchPage fetches one page of a collection and returns the next-page URL,
// empty when the collection is exhausted.
func fetchPage[T any](ctx context.Context, c *Client, rawURL string) ([]T, string, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	next := ParseLinkHeader(resp.Header.Get("Link")).Next

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, "", fmt.Errorf("failed to parse response: %w", err)
	}
	return items, next, nil
}

// fetchAll follows next links until the collection is exhausted,
// accumulating items in API order. Pagination links are absolute URLs, so
// the bearer token is re-sent on every hop.
func fetchAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	rawURL := c.apiURL(path)
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var all []T
	for rawURL != "" {
		items, next, err := fetchPage[T](ctx, c, rawURL)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		rawURL = next
	}
	return all, nil
}
