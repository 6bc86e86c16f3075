package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fwojciec/linkscan"
)

// Ensure Prober implements linkscan.Prober at compile time.
var _ linkscan.Prober = (*Prober)(nil)

// Prober checks reference URLs with a HEAD request, falling back to GET
// when the server rejects HEAD and to an unverified TLS connection when
// the certificate cannot be verified. Transient statuses and network
// errors are retried with exponential backoff.
type Prober struct {
	client        *http.Client
	insecure      *http.Client
	userAgent     string
	maxRetries    uint64
	retryInterval time.Duration
}

// NewProber creates a new Prober.
func NewProber(opts ...Option) *Prober {
	o := newOptions(opts)
	return &Prober{
		client:        newClient(o, false),
		insecure:      newClient(o, true),
		userAgent:     o.userAgent,
		maxRetries:    o.maxRetries,
		retryInterval: o.retryInterval,
	}
}

// Probe checks url and describes the outcome. It never fails: network
// errors are classified and recorded on the result.
func (p *Prober) Probe(ctx context.Context, url string) *linkscan.ValidationResult {
	result := &linkscan.ValidationResult{
		URL:      url,
		FinalURL: url,
	}

	begin := time.Now()
	resp, err := p.request(ctx, p.client, http.MethodHead, url)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp, err = p.request(ctx, p.client, http.MethodGet, url)
	}
	if err != nil && isTLSError(err) {
		resp, err = p.request(ctx, p.insecure, http.MethodGet, url)
	}
	result.ResponseTime = time.Since(begin)

	if err != nil {
		result.Error, result.StatusText = classifyError(err)
		return result
	}

	code := resp.StatusCode
	result.StatusCode = &code
	result.StatusText = reasonPhrase(resp)
	result.ContentType = mediaType(resp.Header.Get("Content-Type"))
	if resp.Request != nil && resp.Request.URL != nil {
		result.FinalURL = resp.Request.URL.String()
	}
	if result.FinalURL != url {
		result.RedirectURL = result.FinalURL
	}
	return result
}

// request sends one request, retrying transient failures. The body of the
// returned response is already closed; only status and headers are used.
// When every retry returns a transient status, the last response is returned.
func (p *Prober) request(ctx context.Context, client *http.Client, method, url string) (*http.Response, error) {
	var attempt uint64
	op := func() (*http.Response, error) {
		attempt++

		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		setHeaders(req, p.userAgent)

		resp, err := client.Do(req)
		if err != nil {
			if !isTransient(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		// Only status and headers are needed.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if isTransientStatus(resp.StatusCode) && attempt <= p.maxRetries {
			return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
		}
		return resp, nil
	}

	return backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(p.newBackOff(), p.maxRetries), ctx))
}

func (p *Prober) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retryInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return b
}

// Close releases idle connections.
func (p *Prober) Close() error {
	p.client.CloseIdleConnections()
	p.insecure.CloseIdleConnections()
	return nil
}

// isTransientStatus reports whether a status is worth retrying.
func isTransientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// reasonPhrase returns the reason phrase from the status line, falling
// back to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	if reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); reason != "" && reason != resp.Status {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mt)
}
