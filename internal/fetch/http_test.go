package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetcher_Success(t *testing.T) {
	payload := []byte("fake image bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("User-Agent") != "Mozilla/5.0" {
			t.Errorf("expected Mozilla/5.0 user agent, got %s", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "input.jpg")
	f := NewHTTPFetcher()

	if err := f.Fetch(context.Background(), server.URL+"/photo.jpg", dest); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != string(payload) {
		t.Errorf("got %q, want %q", content, payload)
	}
}

func TestHTTPFetcher_CreatesParentDirectories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "work", "input.bin")
	f := NewHTTPFetcher()

	if err := f.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("downloaded file missing: %v", err)
	}
}

func TestHTTPFetcher_BadStatus(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("object not found"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "input.jpg")
	f := NewHTTPFetcher()

	err := f.Fetch(context.Background(), server.URL+"/missing.jpg", dest)
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should name the status code, got %v", err)
	}
	if !strings.Contains(err.Error(), "object not found") {
		t.Errorf("error should carry the response body, got %v", err)
	}
	if requests != 1 {
		t.Errorf("expected exactly one request (no retries), got %d", requests)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should be written on a failed fetch")
	}
}

func TestHTTPFetcher_ServerErrorNotRetried(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewHTTPFetcher()
	err := f.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "input.bin"))
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
	if requests != 1 {
		t.Errorf("expected exactly one request (no retries), got %d", requests)
	}
}

func TestHTTPFetcher_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse connections

	f := NewHTTPFetcher()
	err := f.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "input.bin"))
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second) // Simulate slow response
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	f := NewHTTPFetcher()
	err := f.Fetch(ctx, server.URL, filepath.Join(t.TempDir(), "input.bin"))
	if err == nil {
		t.Error("expected error due to context cancellation")
	}
}

func TestHTTPFetcher_CustomUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "formatmedia/1.0" {
			t.Errorf("expected custom user agent, got %s", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithUserAgent("formatmedia/1.0"))
	if err := f.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "input.bin")); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
}
