package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/linkscan"
	"golang.org/x/net/html/charset"
)

// Ensure Fetcher implements linkscan.Fetcher at compile time.
var _ linkscan.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page markup with a full GET request.
// Bodies are decoded to UTF-8 according to the declared or sniffed charset.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := newOptions(opts)
	return &Fetcher{
		client:    newClient(o, false),
		userAgent: o.userAgent,
	}
}

// Fetch retrieves the markup at url. Redirects are followed.
// Responses with a status of 400 or above are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	setHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &linkscan.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body of %s: %w", url, err)
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	return string(content), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
