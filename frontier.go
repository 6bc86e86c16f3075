package linkscan

import "context"

// URLFrontier is the FIFO queue of pages awaiting discovery.
type URLFrontier interface {
	// Push appends url to the queue.
	// Returns false if the URL has already been queued.
	Push(url string, depth int) bool

	// Pop removes and returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (url string, depth int, ok bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has ever been queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
