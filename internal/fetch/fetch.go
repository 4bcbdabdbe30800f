// Package fetch acquires the source file for a run. One URL is
// downloaded to one local path; failures are fatal and nothing is
// retried.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Static errors for acquisition.
var (
	// ErrRequestFailed is returned when the source cannot be retrieved.
	ErrRequestFailed = errors.New("fetch: request failed")
	// ErrBadStatus is returned when an HTTP source answers with a non-2xx status.
	ErrBadStatus = errors.New("fetch: unexpected status")
	// ErrUnsupportedScheme is returned for URLs no fetcher handles.
	ErrUnsupportedScheme = errors.New("fetch: unsupported URL scheme")
	// ErrS3NotConfigured is returned for s3:// URLs when S3 support is not configured.
	ErrS3NotConfigured = errors.New("fetch: S3 support is not configured")
	// ErrInvalidS3URL is returned when an s3:// URL does not name a bucket and key.
	ErrInvalidS3URL = errors.New("fetch: invalid S3 URL")
)

// Fetcher retrieves the bytes behind a URL and writes them to a local
// file.
type Fetcher interface {
	// Fetch downloads url to dest, creating parent directories as
	// needed. Any failure is final; no retries are attempted.
	Fetch(ctx context.Context, url, dest string) error
}

// PlaceholderExt is used when a URL does not reveal a usable file
// extension; kind resolution fixes it afterwards.
const PlaceholderExt = ".bin"

// extPattern matches a short trailing extension, before any query string.
var extPattern = regexp.MustCompile(`\.([a-zA-Z0-9]{2,5})(?:\?|$)`)

// GuessExt extracts a lowercased file extension from the last path
// segment of a URL, falling back to PlaceholderExt when none is found.
func GuessExt(rawURL string) string {
	segment := rawURL
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	m := extPattern.FindStringSubmatch(segment)
	if m == nil {
		return PlaceholderExt
	}
	return "." + strings.ToLower(m[1])
}

// Selector routes URLs to the fetcher for their scheme. The S3 fetcher
// is optional; without it s3:// URLs fail with ErrS3NotConfigured.
type Selector struct {
	httpFetcher Fetcher
	s3Fetcher   Fetcher
}

var _ Fetcher = (*Selector)(nil)

// NewSelector creates a Selector over the given fetchers. s3Fetcher may
// be nil.
func NewSelector(httpFetcher, s3Fetcher Fetcher) *Selector {
	return &Selector{httpFetcher: httpFetcher, s3Fetcher: s3Fetcher}
}

// ForURL returns the fetcher responsible for rawURL's scheme.
func (s *Selector) ForURL(rawURL string) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return s.httpFetcher, nil
	case "s3":
		if s.s3Fetcher == nil {
			return nil, ErrS3NotConfigured
		}
		return s.s3Fetcher, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Fetch downloads rawURL to dest using the fetcher for its scheme.
func (s *Selector) Fetch(ctx context.Context, rawURL, dest string) error {
	f, err := s.ForURL(rawURL)
	if err != nil {
		return err
	}
	return f.Fetch(ctx, rawURL, dest)
}

// writeToFile streams r into dest, creating parent directories. A
// partially written file is removed on failure.
func writeToFile(dest string, r io.Reader) error {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("fetch: create directory: %w", err)
		}
	}

	f, err := os.Create(dest) // #nosec G304 - dest is produced by the application
	if err != nil {
		return fmt.Errorf("fetch: create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("fetch: write file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("fetch: close file: %w", err)
	}

	return nil
}
