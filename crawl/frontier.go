package crawl

import (
	"sync"

	"github.com/fwojciec/linkscan"
	"github.com/fwojciec/linkscan/bloom"
)

// Compile-time interface verification.
var _ linkscan.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO queue of pages awaiting discovery.
// Each URL is accepted at most once over the frontier's lifetime. A Bloom
// filter answers most membership checks; an exact set resolves its false
// positives so that no new URL is ever dropped.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	maybe *bloom.Filter
	seen  map[string]struct{}
	queue []queued
	head  int
}

type queued struct {
	url   string
	depth int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom prefilter.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		maybe: bloom.NewFilter(n, fpRate),
		seen:  make(map[string]struct{}, n),
	}
}

// Push appends url to the back of the queue.
// Returns false if the URL has been pushed before.
// URLs are compared exactly, so fragment-qualified URLs are distinct.
func (f *Frontier) Push(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maybe.TestAndAdd(url) {
		if _, ok := f.seen[url]; ok {
			return false
		}
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, queued{url: url, depth: depth})
	return true
}

// Pop removes and returns the oldest URL in the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return "", 0, false
	}
	item := f.queue[f.head]
	f.queue[f.head] = queued{}
	f.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head > 64 && f.head*2 > len(f.queue) {
		f.queue = append([]queued(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return item.url, item.depth, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen returns true if the URL has ever been pushed.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.maybe.Test(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}
