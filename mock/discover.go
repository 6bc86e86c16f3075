package mock

import (
	"context"

	"github.com/fwojciec/linkscan"
)

var _ linkscan.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of linkscan.Fetcher.
// A nil CloseFn makes Close a no-op.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ linkscan.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of linkscan.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(pageURL, html string) *linkscan.ExtractResult
}

func (e *LinkExtractor) Extract(pageURL, html string) *linkscan.ExtractResult {
	return e.ExtractFn(pageURL, html)
}

var _ linkscan.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of linkscan.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *linkscan.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *linkscan.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ linkscan.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of linkscan.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(userAgent, url string) bool
}

func (p *RobotsPolicy) Allowed(userAgent, url string) bool {
	return p.AllowedFn(userAgent, url)
}

var _ linkscan.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of linkscan.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
