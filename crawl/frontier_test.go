package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/linkscan"
	"github.com/fwojciec/linkscan/crawl"
	"github.com/stretchr/testify/assert"
)

var _ linkscan.URLFrontier = (*crawl.Frontier)(nil)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	ok := f.Push("https://example.com/docs/page1", 1)
	assert.True(t, ok, "first push should succeed")

	ok = f.Push("https://example.com/docs/page1", 2)
	assert.False(t, ok, "duplicate URL should be rejected")
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Push_rejects_URLs_already_popped(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push("https://example.com/a", 0)
	f.Pop()

	assert.False(t, f.Push("https://example.com/a", 1), "popped URL should not be queued again")
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Push_keeps_fragment_URLs_distinct(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push("https://example.com/page", 0))
	assert.True(t, f.Push("https://example.com/page#install", 1))
}

func TestFrontier_Pop_returns_URLs_in_FIFO_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push("https://example.com/", 0)
	f.Push("https://example.com/a", 1)
	f.Push("https://example.com/b", 1)
	f.Push("https://example.com/a/c", 2)

	want := []struct {
		url   string
		depth int
	}{
		{"https://example.com/", 0},
		{"https://example.com/a", 1},
		{"https://example.com/b", 1},
		{"https://example.com/a/c", 2},
	}
	for _, w := range want {
		url, depth, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, w.url, url)
		assert.Equal(t, w.depth, depth)
	}

	_, _, ok := f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Pop_keeps_order_across_compaction(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	for i := range 200 {
		f.Push(fmt.Sprintf("https://example.com/%d", i), 0)
	}
	for i := range 150 {
		url, _, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), url)
	}
	for i := 200; i < 210; i++ {
		f.Push(fmt.Sprintf("https://example.com/%d", i), 0)
	}

	assert.Equal(t, 60, f.Len())
	for i := 150; i < 210; i++ {
		url, _, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), url)
	}
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push("https://example.com/a", 0)
	assert.Equal(t, 1, f.Len())

	f.Push("https://example.com/b", 0)
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Seen_tracks_all_pushed_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://example.com/page"), "unseen URL should return false")

	f.Push("https://example.com/page", 0)

	assert.True(t, f.Seen("https://example.com/page"), "pushed URL should be seen")

	f.Pop()
	assert.True(t, f.Seen("https://example.com/page"), "popped URL should still be seen")
}

func TestFrontier_never_drops_new_URLs(t *testing.T) {
	t.Parallel()

	// A tiny filter saturates quickly, so false positives are certain.
	f := crawl.NewFrontier(1, 0.5)

	for i := range 500 {
		assert.True(t, f.Push(fmt.Sprintf("https://example.com/%d", i), 0))
	}
	assert.Equal(t, 500, f.Len())
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Push(fmt.Sprintf("https://example.com/%d/%d", id, j), 0)
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}
