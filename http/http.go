// Package http implements page fetching, link probing and sitemap
// discovery over HTTP.
package http

import (
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/linkscan"
)

// Defaults for clients built by this package.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxRedirects  = 10
	DefaultMaxRetries    = 3
	DefaultRetryInterval = time.Second

	// MaxBodySize caps how much of a page body is read for extraction.
	MaxBodySize = 10 << 20
)

// Accept headers sent with every request.
const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.8,*;q=0.5"
)

// ErrTooManyRedirects is returned when the redirect hop limit is exceeded.
var ErrTooManyRedirects = errors.New("too many redirects")

// RedirectPolicy returns a CheckRedirect function that follows redirects until
// the number of redirects reaches maxHops, then returns ErrTooManyRedirects.
// When maxHops is <= 0, the http.Client default of 10 applies.
func RedirectPolicy(maxHops int) func(*http.Request, []*http.Request) error {
	if maxHops <= 0 {
		maxHops = DefaultMaxRedirects
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= maxHops {
			return ErrTooManyRedirects
		}
		return nil
	}
}

// Option configures a Fetcher or Prober.
type Option func(*options)

type options struct {
	timeout       time.Duration
	userAgent     string
	insecure      bool
	maxRedirects  int
	maxRetries    uint64
	retryInterval time.Duration
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:       DefaultTimeout,
		userAgent:     linkscan.DefaultUserAgent,
		maxRedirects:  DefaultMaxRedirects,
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTimeout sets the per-request timeout.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
// Defaults to linkscan.DefaultUserAgent if not specified.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(o *options) {
		o.insecure = true
	}
}

// WithMaxRedirects sets how many redirects are followed before giving up.
func WithMaxRedirects(n int) Option {
	return func(o *options) {
		o.maxRedirects = n
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n uint64) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithRetryInterval sets the delay before the first retry. Later retries
// double it.
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		o.retryInterval = d
	}
}

// NewClient returns an http.Client configured like the package's Fetcher,
// for collaborators such as the robots.txt loader.
func NewClient(opts ...Option) *http.Client {
	return newClient(newOptions(opts), false)
}

// newClient builds an http.Client honoring the options. insecure forces
// certificate verification off regardless of the options.
func newClient(o *options, insecure bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure || o.insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit fallback
	}
	return &http.Client{
		Transport:     transport,
		Timeout:       o.timeout,
		CheckRedirect: RedirectPolicy(o.maxRedirects),
	}
}

// setHeaders applies the identification headers to req.
func setHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)
}
