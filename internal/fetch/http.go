package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultUserAgent mirrors a browser; some hosts refuse the Go default.
const defaultUserAgent = "Mozilla/5.0"

// maxErrorBody bounds how much of an error response body is attached to
// the returned error.
const maxErrorBody = 512

// HTTPFetcher downloads http(s) URLs.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPOption is a function that configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		f.httpClient = c
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		f.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent with requests.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// NewHTTPFetcher creates a new HTTPFetcher. The default client times
// out after 60 seconds.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL into dest.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("fetch: create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w %d for %s: %s", ErrBadStatus, resp.StatusCode, rawURL, strings.TrimSpace(string(body)))
	}

	return writeToFile(dest, resp.Body)
}
