package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/linkscan"
)

// Frontier sizing. A page typically links to a few dozen internal URLs.
const (
	frontierURLsPerPage       = 50
	frontierFalsePositiveRate = 0.01
)

// Skip reasons reported for pages that were dequeued but not fetched.
const (
	SkipRobots = "disallowed by robots.txt"
)

// Discoverer walks a site breadth-first from its base URL, fetching each
// same-domain page once and recording the references found on it.
//
// Pages are processed by a single goroutine in strict FIFO order.
// Internal references are queued without their fragment, so "/p#a" and
// "/p#b" cost one fetch. The references themselves keep the fragment.
type Discoverer struct {
	Fetcher     linkscan.Fetcher
	Extractor   linkscan.LinkExtractor
	Robots      linkscan.RobotsPolicy   // nil allows every page
	RateLimiter linkscan.DomainLimiter  // nil disables the politeness delay
	Sitemaps    linkscan.SitemapService // consulted only with SeedFromSitemap
	Filter      *linkscan.URLFilter     // restricts which internal links are followed

	MaxPages        int
	UserAgent       string
	SeedFromSitemap bool
	RetryDelays     []time.Duration
	Log             LogFunc
}

// Discovery is the outcome of a Discover call.
type Discovery struct {
	Pages         []*linkscan.PageRecord
	Links         map[string][]linkscan.Reference
	Skipped       []SkippedPage
	Failed        []FailedPage
	ExtractErrors []*linkscan.ExtractError
}

// SkippedPage is a dequeued page that policy kept the crawler from fetching.
type SkippedPage struct {
	URL    string
	Reason string
}

// FailedPage is a dequeued page whose fetch failed.
type FailedPage struct {
	URL string
	Err error
}

// crawlState is owned by a single Discover call.
type crawlState struct {
	frontier  linkscan.URLFrontier
	visited   map[string]bool
	discovery *Discovery
}

func newCrawlState(maxPages int) *crawlState {
	return &crawlState{
		frontier: NewFrontier(uint(maxPages*frontierURLsPerPage), frontierFalsePositiveRate),
		visited:  make(map[string]bool, maxPages),
		discovery: &Discovery{
			Links: make(map[string][]linkscan.Reference, maxPages),
		},
	}
}

func (s *crawlState) visit(page *linkscan.PageRecord) {
	s.visited[page.URL] = true
	s.discovery.Pages = append(s.discovery.Pages, page)
	s.discovery.Links[page.URL] = page.References
}

// Discover crawls the site rooted at baseURL until the queue is empty or
// MaxPages pages have been fetched. Only successfully fetched pages count
// toward MaxPages.
//
// Per-page failures are recorded in the Discovery and never end the crawl.
// If ctx is canceled the pages collected so far are returned with ctx.Err().
func (d *Discoverer) Discover(ctx context.Context, baseURL string, progress ProgressFunc) (*Discovery, error) {
	maxPages := d.MaxPages
	if maxPages <= 0 {
		maxPages = linkscan.DefaultMaxPages
	}
	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	start := linkscan.StripFragment(linkscan.Normalize(baseURL, baseURL))
	domain := linkscan.Host(start)

	state := newCrawlState(maxPages)
	state.frontier.Push(start, 0)
	if d.SeedFromSitemap && d.Sitemaps != nil {
		d.seed(ctx, state, start, domain)
	}

	progress.emit(ProgressEvent{Stage: StageDiscover, Type: ProgressStarted, Total: maxPages, URL: start})

	for len(state.visited) < maxPages {
		if err := ctx.Err(); err != nil {
			return state.discovery, err
		}

		pageURL, depth, ok := state.frontier.Pop()
		if !ok {
			break
		}
		if state.visited[pageURL] {
			continue
		}

		if d.Robots != nil && !d.Robots.Allowed(d.UserAgent, pageURL) {
			state.discovery.Skipped = append(state.discovery.Skipped, SkippedPage{URL: pageURL, Reason: SkipRobots})
			progress.emit(ProgressEvent{
				Stage: StageDiscover, Type: ProgressSkipped,
				Completed: len(state.visited), Total: maxPages,
				URL: pageURL, Reason: SkipRobots,
			})
			continue
		}

		if d.RateLimiter != nil {
			if err := d.RateLimiter.Wait(ctx, linkscan.Host(pageURL)); err != nil {
				return state.discovery, err
			}
		}

		html, err := FetchWithRetryDelays(ctx, pageURL, d.Fetcher.Fetch, d.Log, delays)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return state.discovery, ctxErr
			}
			state.discovery.Failed = append(state.discovery.Failed, FailedPage{URL: pageURL, Err: err})
			progress.emit(ProgressEvent{
				Stage: StageDiscover, Type: ProgressFailed,
				Completed: len(state.visited), Total: maxPages,
				URL: pageURL, Error: err,
			})
			continue
		}

		extracted := d.Extractor.Extract(pageURL, html)
		state.discovery.ExtractErrors = append(state.discovery.ExtractErrors, extracted.Errors...)
		state.visit(&linkscan.PageRecord{
			URL:         pageURL,
			Depth:       depth,
			FetchedAt:   time.Now(),
			ContentHash: fmt.Sprintf("%016x", xxhash.Sum64String(html)),
			References:  extracted.References,
		})

		for _, ref := range extracted.References {
			if !ref.IsInternal() {
				continue
			}
			next := linkscan.StripFragment(ref.URL)
			if state.visited[next] || state.frontier.Seen(next) || !d.Filter.Match(next) {
				continue
			}
			state.frontier.Push(next, depth+1)
		}

		progress.emit(ProgressEvent{
			Stage: StageDiscover, Type: ProgressCompleted,
			Completed: len(state.visited), Total: maxPages,
			URL: pageURL, Links: len(extracted.References), Queued: state.frontier.Len(),
		})
	}

	progress.emit(ProgressEvent{Stage: StageDiscover, Type: ProgressFinished, Completed: len(state.visited), Total: maxPages})
	return state.discovery, nil
}

// seed queues same-domain sitemap URLs behind the base URL.
// Sitemap errors are logged and otherwise ignored.
func (d *Discoverer) seed(ctx context.Context, state *crawlState, start, domain string) {
	urls, err := d.Sitemaps.DiscoverURLs(ctx, start, d.Filter)
	if err != nil {
		if d.Log != nil {
			d.Log("sitemap %s: %v", start, err)
		}
		return
	}
	for _, u := range urls {
		normalized := linkscan.StripFragment(linkscan.Normalize(u, start))
		if linkscan.ClassifyLink(normalized, domain) != linkscan.LinkTypeInternal {
			continue
		}
		state.frontier.Push(normalized, 1)
	}
}
