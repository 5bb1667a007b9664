package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/vidpeek/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second

	// maxBinarySize caps a single binary fetch; subtitles are small
	maxBinarySize = 16 << 20
)

// HTTPTransport fetches index resources over HTTP.
// Relative URLs are resolved against the configured origin.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPTransport creates a transport for the index at baseURL
func NewHTTPTransport(baseURL string, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchBinary performs a GET and returns the response body
func (t *HTTPTransport) FetchBinary(ctx context.Context, rawURL string) ([]byte, error) {
	reqURL := t.absolute(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	t.logger.Debug("fetching binary", "url", reqURL)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.logger.Debug("binary fetch failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, reqURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBinarySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxBinarySize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", reqURL, maxBinarySize)
	}

	return body, nil
}

// absolute prefixes origin-relative URLs with the base URL
func (t *HTTPTransport) absolute(rawURL string) string {
	if strings.HasPrefix(rawURL, "/") {
		return t.baseURL + rawURL
	}
	return rawURL
}
