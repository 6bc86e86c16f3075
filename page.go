package linkscan

import (
	"context"
	"fmt"
	"time"
)

// PageRecord is a page that was fetched successfully during discovery.
type PageRecord struct {
	URL         string      `json:"url"`
	Depth       int         `json:"depth"`
	FetchedAt   time.Time   `json:"fetchedAt"`
	ContentHash string      `json:"contentHash"`
	References  []Reference `json:"references"`
}

// Fetcher retrieves page markup for link extraction.
type Fetcher interface {
	// Fetch performs a full GET of url and returns the decoded body.
	// Responses other than 2xx are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// StatusError is returned by a Fetcher when the server answers with an
// error status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Temporary reports whether the status may clear if the request is repeated.
func (e *StatusError) Temporary() bool {
	switch e.StatusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
