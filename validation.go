package linkscan

import (
	"context"
	"time"
)

// ValidationResult is the outcome of probing one unique reference URL.
type ValidationResult struct {
	URL          string        `json:"url"`
	StatusCode   *int          `json:"statusCode"`
	StatusText   string        `json:"statusText"`
	ResponseTime time.Duration `json:"-"`
	Error        string        `json:"error,omitempty"`
	RedirectURL  string        `json:"redirectUrl,omitempty"`
	ContentType  string        `json:"contentType"`
	FinalURL     string        `json:"finalUrl"`
}

// Broken reports whether the reference is unusable: no status was obtained,
// the status is 400 or above, or an error was recorded.
// A redirect on its own is not broken.
func (r *ValidationResult) Broken() bool {
	return r.StatusCode == nil || *r.StatusCode >= 400 || r.Error != ""
}

// ResponseTimeMS returns the response time in milliseconds.
func (r *ValidationResult) ResponseTimeMS() int64 {
	return r.ResponseTime.Milliseconds()
}

// Redirected reports whether the probe followed at least one redirect.
func (r *ValidationResult) Redirected() bool {
	return r.RedirectURL != ""
}

// Status returns the status code, or 0 when none was obtained.
func (r *ValidationResult) Status() int {
	if r.StatusCode == nil {
		return 0
	}
	return *r.StatusCode
}

// Prober checks whether a URL is reachable.
type Prober interface {
	// Probe issues a network request for url and returns its outcome.
	// Network failures are recorded in the result, never returned.
	Probe(ctx context.Context, url string) *ValidationResult
}

// RobotsPolicy decides whether the crawler may fetch a URL.
type RobotsPolicy interface {
	// Allowed reports whether userAgent may fetch url.
	Allowed(userAgent, url string) bool
}
