// Package robotstxt implements linkscan.RobotsPolicy using
// github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/linkscan"
	"github.com/temoto/robotstxt"
)

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024

// Ensure Policy implements linkscan.RobotsPolicy.
var _ linkscan.RobotsPolicy = (*Policy)(nil)

// Policy answers whether URLs may be crawled according to one site's
// robots.txt. A Policy without rules allows everything.
type Policy struct {
	data *robotstxt.RobotsData
}

// AllowAll returns a Policy that allows every URL.
func AllowAll() *Policy {
	return &Policy{}
}

// Parse builds a Policy from a robots.txt body served with statusCode.
// Only 2xx responses are parsed; anything else, or a parse failure,
// allows everything.
func Parse(statusCode int, body []byte) *Policy {
	if statusCode < 200 || statusCode >= 300 {
		return AllowAll()
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return AllowAll()
	}
	return &Policy{data: data}
}

// Load fetches /robots.txt for the site at baseURL once and returns its
// Policy. Any failure to fetch or parse yields an allow-all Policy along
// with the error, so callers can log it and carry on.
func Load(ctx context.Context, client *http.Client, baseURL, userAgent string) (*Policy, error) {
	if client == nil {
		client = http.DefaultClient
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return AllowAll(), fmt.Errorf("robots: parse base url: %w", err)
	}
	robotsURL := (&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/robots.txt"}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return AllowAll(), fmt.Errorf("robots: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return AllowAll(), fmt.Errorf("robots: fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return AllowAll(), fmt.Errorf("robots: read body: %w", err)
	}

	return Parse(resp.StatusCode, body), nil
}

// Allowed reports whether userAgent may fetch rawURL.
// Unparseable URLs are allowed; the fetch will fail on its own.
func (p *Policy) Allowed(userAgent, rawURL string) bool {
	if p == nil || p.data == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return p.data.TestAgent(path, userAgent)
}
