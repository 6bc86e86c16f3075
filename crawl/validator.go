package crawl

import (
	"context"

	"github.com/fwojciec/linkscan"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultProgressEvery is how many completions pass between validation
// progress events.
const DefaultProgressEvery = 10

// Validator probes reference URLs with a bounded pool of workers.
type Validator struct {
	Prober        linkscan.Prober
	Workers       int
	ProgressEvery int

	group singleflight.Group
}

// Validate probes each unique URL once and returns its result keyed by URL.
// Duplicate input URLs are ignored. Probe failures are recorded in the
// results, so every unique URL has an entry even when ctx is canceled.
//
// Progress is reported every ProgressEvery completions and on the last one.
func (v *Validator) Validate(ctx context.Context, urls []string, progress ProgressFunc) map[string]*linkscan.ValidationResult {
	unique := dedupe(urls)
	results := make(map[string]*linkscan.ValidationResult, len(unique))
	if len(unique) == 0 {
		return results
	}

	workers := v.Workers
	if workers <= 0 {
		workers = linkscan.DefaultWorkers
	}
	every := v.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	progress.emit(ProgressEvent{Stage: StageValidate, Type: ProgressStarted, Total: len(unique)})

	type probed struct {
		url    string
		result *linkscan.ValidationResult
	}
	out := make(chan probed)

	go func() {
		var g errgroup.Group
		g.SetLimit(workers)
		for _, u := range unique {
			g.Go(func() error {
				out <- probed{url: u, result: v.Check(ctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(out)
	}()

	for p := range out {
		results[p.url] = p.result
		completed := len(results)
		if completed%every == 0 || completed == len(unique) {
			progress.emit(ProgressEvent{
				Stage: StageValidate, Type: ProgressCompleted,
				Completed: completed, Total: len(unique),
				URL: p.url, Result: p.result,
			})
		}
	}

	progress.emit(ProgressEvent{Stage: StageValidate, Type: ProgressFinished, Completed: len(results), Total: len(unique)})
	return results
}

// Check probes a single URL. Concurrent calls for the same URL share one
// probe and its result.
func (v *Validator) Check(ctx context.Context, url string) *linkscan.ValidationResult {
	r, _, _ := v.group.Do(url, func() (any, error) {
		return v.Prober.Probe(ctx, url), nil
	})
	return r.(*linkscan.ValidationResult)
}

// dedupe returns urls without repeats, keeping first occurrences in order.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	return unique
}
