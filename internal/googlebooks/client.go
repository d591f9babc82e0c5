// Package googlebooks implements the Google Books API client used to look up
// book metadata by ISBN.
//
// Lookups are a two-step dance: an ISBN search that must resolve to exactly
// one volume ID, then a per-volume fetch of the full metadata. The fetch
// tolerates partial upstream records; absent fields default instead of
// failing.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/tome/internal/book"
	"github.com/lepinkainen/tome/internal/errors"
	"github.com/lepinkainen/tome/internal/ratelimit"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"

	// The API is fast when it answers at all; a short timeout keeps the
	// interactive loop responsive. Timeouts are not retried.
	defaultTimeout = 3 * time.Second
)

// Client talks to the Google Books volumes API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIKey sets the Google Books API key appended to requests.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// NewClient creates a Google Books client with a 3 second request timeout
// and a 1 req/s rate limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    ratelimit.New("GoogleBooks", 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeISBN strips hyphens and spaces from an ISBN. No further local
// validation is done; the API itself decides what it accepts.
func NormalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(normalized, " ", "")
}

// VolumeIDByISBN resolves an ISBN to a unique volume ID.
//
// Returns *errors.StatusError on a non-success response and
// *errors.NoUniqueMatchError when the search yields zero or multiple
// volumes. Neither is retried.
func (c *Client) VolumeIDByISBN(ctx context.Context, isbn string) (string, error) {
	normalized := NormalizeISBN(isbn)
	url := fmt.Sprintf("%s/volumes?q=isbn:%s", c.baseURL, normalized)
	if c.apiKey != "" {
		url = fmt.Sprintf("%s&key=%s", url, c.apiKey)
	}

	slog.Debug("Resolving volume ID", "isbn", isbn, "normalized_isbn", normalized)

	var result volumesResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return "", err
	}

	if result.TotalItems != 1 || len(result.Items) != 1 {
		return "", errors.NewNoUniqueMatchError(normalized, result.TotalItems)
	}

	slog.Debug("Resolved volume ID", "isbn", isbn, "volume_id", result.Items[0].ID)
	return result.Items[0].ID, nil
}

// VolumeByID fetches the raw metadata for a volume ID and maps it onto a
// book.Book with absent fields defaulted (nil scalars, empty author and
// category lists). Callers are expected to resolve the ID via
// VolumeIDByISBN first, or bring one from another trusted source.
//
// The returned record is raw: the published date and author casing still
// need book.Normalize.
func (c *Client) VolumeByID(ctx context.Context, volumeID string) (*book.Book, error) {
	url := fmt.Sprintf("%s/volumes/%s", c.baseURL, volumeID)
	if c.apiKey != "" {
		url = fmt.Sprintf("%s?key=%s", url, c.apiKey)
	}

	var result volumeResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}

	b := result.toBook()
	slog.Debug("Fetched volume", "volume_id", volumeID, "title", b.DisplayTitle())
	return &b, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google books request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewStatusError(resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding google books response: %w", err)
	}
	return nil
}
